package ftcharset

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}

func isLowSurrogate(u uint16) bool {
	return u >= 0xdc00 && u < 0xe000
}

func put3(dst []byte, u uint16) {
	dst[0] = byte(0xe0 | u>>12)
	dst[1] = byte(0x80 | (u>>6)&0x3f)
	dst[2] = byte(0x80 | u&0x3f)
}

// UTF8Encoder encodes UTF-16 code units as UTF-8-FT.
//
// Every code unit is encodable. A surrogate pair becomes the canonical
// 4-byte sequence; an unpaired surrogate becomes a 3-byte sequence of its
// own value. A high surrogate at the very end of the input is held back
// until the next call, Flush or Reset.
type UTF8Encoder struct {
	replacement []byte
	pending     uint16
}

func NewUTF8Encoder() *UTF8Encoder {
	return &UTF8Encoder{replacement: []byte{'?'}}
}

func (*UTF8Encoder) Charset() Charset { return UTF8FT }

func (*UTF8Encoder) Ratios() Ratios { return Ratios{Average: 1.1, Max: 3.0} }

func (*UTF8Encoder) CanEncode(u uint16) bool { return true }

// Pending returns the high surrogate held back from the previous call.
func (e *UTF8Encoder) Pending() (uint16, bool) {
	return e.pending, e.pending != 0
}

func (e *UTF8Encoder) Reset() {
	e.pending = 0
}

func (e *UTF8Encoder) Replacement() []byte {
	if e.replacement == nil {
		return []byte{'?'}
	}
	return e.replacement
}

// IsLegalReplacement accepts a single ASCII byte, or any byte sequence that
// decodes completely as UTF-8-FT.
func (e *UTF8Encoder) IsLegalReplacement(repl []byte) bool {
	if len(repl) == 1 && repl[0] < utf8.RuneSelf {
		return true
	}
	return decodesCompletely(&UTF8Decoder{}, repl)
}

func (e *UTF8Encoder) SetReplacement(repl []byte) error {
	if !e.IsLegalReplacement(repl) {
		return fmt.Errorf("illegal replacement for %s: % x", UTF8FT, repl)
	}
	e.replacement = append([]byte(nil), repl...)
	return nil
}

func (e *UTF8Encoder) Encode(dst []byte, src []uint16) (nDst, nSrc int, res Result) {
	sp, sl := 0, len(src)
	dp, dl := 0, len(dst)

	// ASCII run
	if e.pending == 0 {
		asciiEnd := min(sl, dl)
		for sp < asciiEnd && src[sp] < utf8.RuneSelf {
			dst[sp] = byte(src[sp])
			sp++
		}
		dp = sp
	}

	for sp < sl {
		var c uint16
		var next int
		if e.pending == 0 {
			c = src[sp]
			next = sp + 1
		} else {
			c = e.pending
			next = sp
		}

		switch {
		case c < utf8.RuneSelf:
			if dp >= dl {
				return dp, sp, Overflow
			}
			dst[dp] = byte(c)
			dp++
		case c < 0x800:
			// 2 bytes, 11 bits
			if dl-dp < 2 {
				return dp, sp, Overflow
			}
			dst[dp] = byte(0xc0 | c>>6)
			dst[dp+1] = byte(0x80 | c&0x3f)
			dp += 2
		case isHighSurrogate(c):
			if next >= sl {
				e.pending = c
				return dp, next, Underflow
			}
			if low := src[next]; isLowSurrogate(low) {
				if dl-dp < 4 {
					return dp, sp, Overflow
				}
				r := utf16.DecodeRune(rune(c), rune(low))
				dst[dp] = byte(0xf0 | r>>18)
				dst[dp+1] = byte(0x80 | (r>>12)&0x3f)
				dst[dp+2] = byte(0x80 | (r>>6)&0x3f)
				dst[dp+3] = byte(0x80 | r&0x3f)
				dp += 4
				next++
			} else {
				// unpaired high surrogate, 3 bytes
				if dl-dp < 3 {
					return dp, sp, Overflow
				}
				put3(dst[dp:], c)
				dp += 3
			}
		default:
			// 3 bytes, 16 bits; includes unpaired low surrogates
			if dl-dp < 3 {
				return dp, sp, Overflow
			}
			put3(dst[dp:], c)
			dp += 3
		}

		e.pending = 0
		sp = next
	}
	return dp, sp, Underflow
}

// Flush writes a held-back high surrogate as a standalone 3-byte sequence.
func (e *UTF8Encoder) Flush(dst []byte) (nDst int, res Result) {
	if e.pending == 0 {
		return 0, Underflow
	}
	if len(dst) < 3 {
		return 0, Overflow
	}
	put3(dst, e.pending)
	e.pending = 0
	return 3, Underflow
}

// UTF16LEEncoder writes each code unit as two little-endian bytes with no
// surrogate pairing logic.
type UTF16LEEncoder struct {
	replacement []byte
}

func NewUTF16LEEncoder() *UTF16LEEncoder {
	return &UTF16LEEncoder{replacement: []byte{0xfd, 0xff}}
}

func (*UTF16LEEncoder) Charset() Charset { return UTF16LEFT }

func (*UTF16LEEncoder) Ratios() Ratios { return Ratios{Average: 2.0, Max: 2.0} }

func (*UTF16LEEncoder) CanEncode(u uint16) bool { return true }

func (*UTF16LEEncoder) Reset() {}

func (*UTF16LEEncoder) Flush(dst []byte) (nDst int, res Result) { return 0, Underflow }

func (e *UTF16LEEncoder) Replacement() []byte {
	if e.replacement == nil {
		return []byte{0xfd, 0xff}
	}
	return e.replacement
}

func (e *UTF16LEEncoder) IsLegalReplacement(repl []byte) bool {
	return decodesCompletely(&UTF16LEDecoder{}, repl)
}

func (e *UTF16LEEncoder) SetReplacement(repl []byte) error {
	if !e.IsLegalReplacement(repl) {
		return fmt.Errorf("illegal replacement for %s: % x", UTF16LEFT, repl)
	}
	e.replacement = append([]byte(nil), repl...)
	return nil
}

func (e *UTF16LEEncoder) Encode(dst []byte, src []uint16) (nDst, nSrc int, res Result) {
	for ; nSrc < len(src); nSrc++ {
		if len(dst)-nDst < 2 {
			return nDst, nSrc, Overflow
		}
		binary.LittleEndian.PutUint16(dst[nDst:], src[nSrc])
		nDst += 2
	}
	return nDst, nSrc, Underflow
}

// decodesCompletely reports whether p is non-empty and decodes without
// malformed input or leftover bytes.
func decodesCompletely(d Decoder, p []byte) bool {
	if len(p) == 0 {
		return false
	}
	buf := make([]uint16, len(p))
	_, n, res := d.Decode(buf, p)
	return res.IsUnderflow() && n == len(p)
}
