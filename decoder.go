package ftcharset

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

var decoderReplacement = []uint16{utf8.RuneError}

// UTF8Decoder decodes UTF-8-FT bytes into UTF-16 code units.
//
// It follows the UTF-8 grammar except that 3-byte encodings of surrogate
// code points are accepted, so the output of UTF8Encoder for unpaired
// surrogates decodes back to the same code units.
type UTF8Decoder struct{}

func NewUTF8Decoder() *UTF8Decoder {
	return &UTF8Decoder{}
}

func (*UTF8Decoder) Charset() Charset { return UTF8FT }

func (*UTF8Decoder) Reset() {}

func (*UTF8Decoder) Replacement() []uint16 { return decoderReplacement }

func (*UTF8Decoder) Ratios() Ratios { return Ratios{Average: 1.0, Max: 1.0} }

func isContinuation(b byte) bool {
	return b&0xc0 == 0x80
}

//	[E0]     [A0..BF] [80..BF]
//	[E1..EF] [80..BF] [80..BF]
func isMalformed3(b1, b2, b3 byte) bool {
	return (b1 == 0xe0 && b2&0xe0 == 0x80) || !isContinuation(b2) || !isContinuation(b3)
}

// isMalformed3Prefix is used when only two bytes of a 3-byte sequence are
// available.
func isMalformed3Prefix(b1, b2 byte) bool {
	return (b1 == 0xe0 && b2&0xe0 == 0x80) || !isContinuation(b2)
}

//	[F0]     [90..BF] [80..BF] [80..BF]
//	[F1..F3] [80..BF] [80..BF] [80..BF]
//	[F4]     [80..8F] [80..BF] [80..BF]
//
// Only the continuation pattern is checked here; the lead byte ranges are
// covered by the supplementary range check on the assembled code point.
func isMalformed4(b2, b3, b4 byte) bool {
	return !isContinuation(b2) || !isContinuation(b3) || !isContinuation(b4)
}

// isMalformed4Prefix reports whether b1 b2 cannot start any legal 4-byte
// sequence.
func isMalformed4Prefix(b1, b2 byte) bool {
	return (b1 == 0xf0 && (b2 < 0x90 || b2 > 0xbf)) ||
		(b1 == 0xf4 && b2&0xf0 != 0x80) ||
		!isContinuation(b2)
}

func isSupplementary(r rune) bool {
	return r >= 0x10000 && r <= utf8.MaxRune
}

// malformedN computes the length to report for a malformed sequence that
// nominally spans nb bytes starting at p[0]. The result is the shortest
// prefix a conformant decoder would skip.
func malformedN(p []byte, nb int) Result {
	switch nb {
	case 1, 2:
		return Malformed(1)
	case 3:
		b1, b2 := p[0], p[1]
		if (b1 == 0xe0 && b2&0xe0 == 0x80) || !isContinuation(b2) {
			return Malformed(1)
		}
		return Malformed(2)
	case 4:
		b1, b2 := p[0], p[1]
		if b1 > 0xf4 || isMalformed4Prefix(b1, b2) {
			return Malformed(1)
		}
		if !isContinuation(p[2]) {
			return Malformed(2)
		}
		return Malformed(3)
	default:
		panic("should never happen")
	}
}

func (d *UTF8Decoder) Decode(dst []uint16, src []byte) (nDst, nSrc int, res Result) {
	sp, sl := 0, len(src)
	dp, dl := 0, len(dst)

	// ASCII run
	asciiEnd := min(sl, dl)
	for sp < asciiEnd && src[sp] < utf8.RuneSelf {
		dst[sp] = uint16(src[sp])
		sp++
	}
	dp = sp

	for sp < sl {
		b1 := src[sp]
		switch {
		case b1 < utf8.RuneSelf:
			// 1 byte, 7 bits: 0xxxxxxx
			if dp >= dl {
				return dp, sp, xflow(sl-sp, 1)
			}
			dst[dp] = uint16(b1)
			dp++
			sp++
		case b1>>5 == 0x06 && b1&0x1e != 0:
			// 2 bytes, 11 bits: 110xxxxx 10xxxxxx
			//                   [C2..DF] [80..BF]
			if sl-sp < 2 || dp >= dl {
				return dp, sp, xflow(sl-sp, 2)
			}
			b2 := src[sp+1]
			if !isContinuation(b2) {
				return dp, sp, Malformed(1)
			}
			dst[dp] = uint16(b1&0x1f)<<6 | uint16(b2&0x3f)
			dp++
			sp += 2
		case b1>>4 == 0x0e:
			// 3 bytes, 16 bits: 1110xxxx 10xxxxxx 10xxxxxx
			remaining := sl - sp
			if remaining < 3 || dp >= dl {
				if remaining > 1 && isMalformed3Prefix(b1, src[sp+1]) {
					return dp, sp, Malformed(1)
				}
				return dp, sp, xflow(remaining, 3)
			}
			b2, b3 := src[sp+1], src[sp+2]
			if isMalformed3(b1, b2, b3) {
				return dp, sp, malformedN(src[sp:], 3)
			}
			dst[dp] = uint16(b1&0x0f)<<12 | uint16(b2&0x3f)<<6 | uint16(b3&0x3f)
			dp++
			sp += 3
		case b1>>3 == 0x1e:
			// 4 bytes, 21 bits: 11110xxx 10xxxxxx 10xxxxxx 10xxxxxx
			remaining := sl - sp
			if remaining < 4 || dl-dp < 2 {
				if b1 > 0xf4 || (remaining > 1 && isMalformed4Prefix(b1, src[sp+1])) {
					return dp, sp, Malformed(1)
				}
				if remaining > 2 && !isContinuation(src[sp+2]) {
					return dp, sp, Malformed(2)
				}
				return dp, sp, xflow(remaining, 4)
			}
			b2, b3, b4 := src[sp+1], src[sp+2], src[sp+3]
			r := rune(b1&0x07)<<18 | rune(b2&0x3f)<<12 | rune(b3&0x3f)<<6 | rune(b4&0x3f)
			// shortest form check
			if isMalformed4(b2, b3, b4) || !isSupplementary(r) {
				return dp, sp, malformedN(src[sp:], 4)
			}
			hi, lo := utf16.EncodeRune(r)
			dst[dp] = uint16(hi)
			dst[dp+1] = uint16(lo)
			dp += 2
			sp += 4
		default:
			return dp, sp, Malformed(1)
		}
	}
	return dp, sp, Underflow
}

// UTF16LEDecoder pairs bytes little-endian into code units. Surrogates are
// passed through without any pairing check.
type UTF16LEDecoder struct{}

func NewUTF16LEDecoder() *UTF16LEDecoder {
	return &UTF16LEDecoder{}
}

func (*UTF16LEDecoder) Charset() Charset { return UTF16LEFT }

func (*UTF16LEDecoder) Reset() {}

func (*UTF16LEDecoder) Replacement() []uint16 { return decoderReplacement }

func (*UTF16LEDecoder) Ratios() Ratios { return Ratios{Average: 0.5, Max: 1.0} }

func (d *UTF16LEDecoder) Decode(dst []uint16, src []byte) (nDst, nSrc int, res Result) {
	for len(src)-nSrc > 1 {
		if nDst >= len(dst) {
			return nDst, nSrc, Overflow
		}
		dst[nDst] = binary.LittleEndian.Uint16(src[nSrc:])
		nDst++
		nSrc += 2
	}
	return nDst, nSrc, Underflow
}
