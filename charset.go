// Package ftcharset implements fault-tolerant variants of UTF-8 and
// UTF-16LE.
//
// The engines transcode between bytes and UTF-16 code units in resumable
// steps and report malformed input instead of replacing it, so unpaired
// surrogates and invalid byte sequences survive a decode/encode round trip.
// What to do with a reported malformed sequence is left to the caller.
package ftcharset

import (
	"fmt"
	"strings"
)

type Charset int

const (
	UTF8FT = Charset(iota)
	UTF16LEFT
)

var charsets = []Charset{UTF8FT, UTF16LEFT}

func (c Charset) String() string {
	switch c {
	case UTF8FT:
		return "UTF-8-FT"
	case UTF16LEFT:
		return "UTF-16LE-FT"
	default:
		return fmt.Sprintf("??? (%d)", int(c))
	}
}

// Name returns the name the charset is registered under.
func (c Charset) Name() string { return c.String() }

// Contains reports whether every string representable in o is also
// representable in c. Each FT charset only contains itself.
func (c Charset) Contains(o Charset) bool { return c == o }

func (c Charset) NewDecoder() Decoder {
	switch c {
	case UTF8FT:
		return NewUTF8Decoder()
	case UTF16LEFT:
		return NewUTF16LEDecoder()
	default:
		panic(fmt.Sprintf("unknown charset: %s", c))
	}
}

func (c Charset) NewEncoder() Encoder {
	switch c {
	case UTF8FT:
		return NewUTF8Encoder()
	case UTF16LEFT:
		return NewUTF16LEEncoder()
	default:
		panic(fmt.Sprintf("unknown charset: %s", c))
	}
}

// Lookup finds a charset by name, ignoring case.
func Lookup(name string) (Charset, bool) {
	for _, c := range charsets {
		if strings.EqualFold(name, c.Name()) {
			return c, true
		}
	}
	return 0, false
}

// Charsets returns all registered charsets.
func Charsets() []Charset {
	return append([]Charset(nil), charsets...)
}
