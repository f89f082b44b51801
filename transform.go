package ftcharset

import (
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const defaultScratchSize = 512

type Option func(*Transcoder)

// WithScratchSize sets the number of code units buffered between the
// decode and encode halves of a Transcoder.
func WithScratchSize(n int) Option {
	return func(t *Transcoder) {
		if n >= 2 {
			t.units = make([]uint16, n)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Transcoder) {
		if l != nil {
			t.log = l
		}
	}
}

// Transcoder chains a Decoder and an Encoder through a code unit buffer and
// exposes the pair as a transform.Transformer.
//
// Malformed input stops the transformation with a *MalformedError whose
// Offset counts bytes since the last Reset.
type Transcoder struct {
	dec   Decoder
	enc   Encoder
	units []uint16
	pos   int64
	log   *zap.Logger
}

var _ transform.Transformer = (*Transcoder)(nil)

func NewTranscoder(dec Decoder, enc Encoder, opts ...Option) *Transcoder {
	t := &Transcoder{
		dec: dec,
		enc: enc,
		log: Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.units == nil {
		t.units = make([]uint16, defaultScratchSize)
	}
	return t
}

func (t *Transcoder) Reset() {
	t.dec.Reset()
	t.enc.Reset()
	t.pos = 0
}

// scratch returns a code unit buffer small enough that encoding all of it
// fits into free bytes of output.
func (t *Transcoder) scratch(free int) []uint16 {
	n := free / int(t.enc.Ratios().Max)
	if p, ok := t.enc.(interface{ Pending() (uint16, bool) }); ok {
		if _, held := p.Pending(); held {
			n--
		}
	}
	if n <= 0 {
		return nil
	}
	return t.units[:min(n, len(t.units))]
}

func (t *Transcoder) malformed(offset int, src []byte, n int) error {
	err := newMalformedError(t.dec.Charset(), t.pos+int64(offset), src, n)
	t.log.Debug("malformed input",
		zap.Stringer("charset", err.Charset),
		zap.Int64("offset", err.Offset),
		zap.Int("length", err.Length))
	return err
}

func (t *Transcoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() {
		t.pos += int64(nSrc)
	}()

	for nSrc < len(src) {
		units := t.scratch(len(dst) - nDst)
		if len(units) == 0 {
			return nDst, nSrc, transform.ErrShortDst
		}
		nu, ns, res := t.dec.Decode(units, src[nSrc:])
		nd, nc, eres := t.enc.Encode(dst[nDst:], units[:nu])
		if nc != nu || !eres.IsUnderflow() {
			panic("should never happen")
		}
		nDst += nd
		nSrc += ns

		switch {
		case res.IsMalformed():
			return nDst, nSrc, t.malformed(nSrc, src[nSrc:], res.Length())
		case res.IsOverflow():
			if nu == 0 {
				return nDst, nSrc, transform.ErrShortDst
			}
		case nSrc < len(src):
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, t.malformed(nSrc, src[nSrc:], len(src)-nSrc)
		}
	}

	if atEOF {
		n, res := t.enc.Flush(dst[nDst:])
		nDst += n
		if res.IsOverflow() {
			return nDst, nSrc, transform.ErrShortDst
		}
		if n > 0 {
			t.log.Debug("flushed pending surrogate", zap.Stringer("charset", t.enc.Charset()))
		}
	}
	return nDst, nSrc, nil
}

type ftEncoding struct {
	cs   Charset
	opts []Option
}

// Encoding adapts c to golang.org/x/text/encoding. Go strings on the UTF-8
// side carry UTF-8-FT, so unpaired surrogates decoded from UTF-16LE-FT are
// kept as 3-byte sequences and encode back to the same code units.
func (c Charset) Encoding(opts ...Option) encoding.Encoding {
	return ftEncoding{cs: c, opts: opts}
}

func (e ftEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: NewTranscoder(e.cs.NewDecoder(), NewUTF8Encoder(), e.opts...)}
}

func (e ftEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: NewTranscoder(NewUTF8Decoder(), e.cs.NewEncoder(), e.opts...)}
}

func (e ftEncoding) String() string { return e.cs.String() }
