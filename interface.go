package ftcharset

// Ratios describes how much output an engine produces per input element,
// for callers sizing their buffers.
type Ratios struct {
	Average float32
	Max     float32
}

// Decoder turns bytes into UTF-16 code units.
//
// Decode consumes src and fills dst, returning how many elements of each
// were used. nSrc always ends on a sequence boundary or on the first byte
// of a malformed sequence. Decoders must not be used concurrently.
type Decoder interface {
	Charset() Charset
	Decode(dst []uint16, src []byte) (nDst, nSrc int, res Result)
	Reset()
	Replacement() []uint16
	Ratios() Ratios
}

// Encoder turns UTF-16 code units into bytes.
//
// Encode never writes a partial sequence. Flush emits any state held back
// at the end of a stream; Reset discards it.
type Encoder interface {
	Charset() Charset
	Encode(dst []byte, src []uint16) (nDst, nSrc int, res Result)
	Flush(dst []byte) (nDst int, res Result)
	Reset()
	CanEncode(u uint16) bool
	Replacement() []byte
	SetReplacement(repl []byte) error
	IsLegalReplacement(repl []byte) bool
	Ratios() Ratios
}
