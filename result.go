package ftcharset

import "fmt"

type ResultKind int

const (
	ResultUnderflow = ResultKind(iota)
	ResultOverflow
	ResultMalformed
)

func (k ResultKind) String() string {
	switch k {
	case ResultUnderflow:
		return "Underflow"
	case ResultOverflow:
		return "Overflow"
	case ResultMalformed:
		return "Malformed"
	default:
		return fmt.Sprintf("??? (%d)", int(k))
	}
}

// Result is the outcome of a single transcoding step.
//
// Underflow means the input is exhausted or ends in an incomplete sequence,
// Overflow means the output cannot hold the next unit, and Malformed means
// the next Length() input elements form an invalid sequence that the caller
// must skip or substitute before calling again.
type Result struct {
	kind   ResultKind
	length int
}

var (
	Underflow = Result{kind: ResultUnderflow}
	Overflow  = Result{kind: ResultOverflow}
)

// Malformed returns a malformed-input result covering n input elements.
func Malformed(n int) Result {
	if n < 1 {
		panic(fmt.Sprintf("invalid malformed length: %d", n))
	}
	return Result{kind: ResultMalformed, length: n}
}

func (r Result) Kind() ResultKind { return r.kind }

// Length returns the size of the malformed sequence, or 0 for Underflow and
// Overflow.
func (r Result) Length() int { return r.length }

func (r Result) IsUnderflow() bool { return r.kind == ResultUnderflow }

func (r Result) IsOverflow() bool { return r.kind == ResultOverflow }

func (r Result) IsMalformed() bool { return r.kind == ResultMalformed }

func (r Result) String() string {
	if r.kind == ResultMalformed {
		return fmt.Sprintf("Malformed(%d)", r.length)
	}
	return r.kind.String()
}

// xflow picks between Underflow and Overflow when a sequence needing nb
// input elements could not be completed with remaining elements left.
func xflow(remaining, nb int) Result {
	if nb == 0 || remaining < nb {
		return Underflow
	}
	return Overflow
}
