package ftcharset

import (
	"errors"
	"fmt"
)

// ErrMalformed matches any *MalformedError with errors.Is.
var ErrMalformed = errors.New("malformed input")

// MalformedError reports a malformed sequence found while transforming a
// stream. Offset is relative to the source slice of the failing call unless
// the producer tracks absolute stream positions.
type MalformedError struct {
	Charset Charset
	Offset  int64
	Length  int
	Input   []byte
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed input of length %d at offset %d: % x", e.Charset, e.Length, e.Offset, e.Input)
}

func (e *MalformedError) Is(target error) bool {
	if target == ErrMalformed {
		return true
	}
	if t, ok := target.(*MalformedError); ok {
		return e.Charset == t.Charset && e.Length == t.Length
	}
	return false
}

func newMalformedError(cs Charset, offset int64, p []byte, n int) *MalformedError {
	if n > len(p) {
		panic("should never happen")
	}
	return &MalformedError{
		Charset: cs,
		Offset:  offset,
		Length:  n,
		Input:   append([]byte(nil), p[:n]...),
	}
}
