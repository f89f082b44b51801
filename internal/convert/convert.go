// Package convert streams bytes from one FT charset to another through the
// code unit layer and applies a malformed-input policy on the way.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/opencollector/ftcharset-go"
)

type Policy int

const (
	PolicyAbort = Policy(iota)
	PolicySkip
	PolicyReplace
)

var policyNames = map[Policy]string{
	PolicyAbort:   "abort",
	PolicySkip:    "skip",
	PolicyReplace: "replace",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("??? (%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown malformed-input policy: %q (use abort|skip|replace)", s)
}

const (
	DefaultBufferSize = 32 * 1024
	minBufferSize     = 16
)

type Options struct {
	From        ftcharset.Charset
	To          ftcharset.Charset
	OnMalformed Policy
	BufferSize  int
	Logger      *zap.Logger
}

type Stats struct {
	BytesIn   int64
	BytesOut  int64
	Malformed int
}

// Converter holds the settings of a conversion. Each call to Convert uses
// fresh engines, so one Converter may serve several goroutines.
type Converter struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) *Converter {
	if opts.BufferSize < minBufferSize {
		opts.BufferSize = DefaultBufferSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{opts: opts, log: log}
}

type stream struct {
	dec   ftcharset.Decoder
	enc   ftcharset.Encoder
	w     io.Writer
	out   []byte
	stats Stats
}

func (s *stream) write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := s.w.Write(p)
	s.stats.BytesOut += int64(n)
	return err
}

func (s *stream) encode(units []uint16) error {
	for len(units) > 0 {
		nDst, nSrc, res := s.enc.Encode(s.out, units)
		if err := s.write(s.out[:nDst]); err != nil {
			return err
		}
		units = units[nSrc:]
		if res.IsOverflow() && nDst == 0 && nSrc == 0 {
			return io.ErrShortBuffer
		}
	}
	return nil
}

func (s *stream) flush() error {
	n, res := s.enc.Flush(s.out)
	if res.IsOverflow() {
		return io.ErrShortBuffer
	}
	return s.write(s.out[:n])
}

// Convert reads r to the end and writes the converted bytes to w.
func (c *Converter) Convert(ctx context.Context, w io.Writer, r io.Reader) (Stats, error) {
	s := &stream{
		dec: c.opts.From.NewDecoder(),
		enc: c.opts.To.NewEncoder(),
		w:   w,
	}
	size := c.opts.BufferSize
	in := make([]byte, size)
	units := make([]uint16, size)
	s.out = make([]byte, int(s.enc.Ratios().Max)*size+4)

	var pos int64
	n := 0
	eof := false
	for {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		if !eof && n < len(in) {
			m, err := r.Read(in[n:])
			n += m
			s.stats.BytesIn += int64(m)
			if errors.Is(err, io.EOF) {
				eof = true
			} else if err != nil {
				return s.stats, err
			}
		}

		nu, ns, res := s.dec.Decode(units, in[:n])
		if err := s.encode(units[:nu]); err != nil {
			return s.stats, err
		}
		n = copy(in, in[ns:n])
		pos += int64(ns)

		switch {
		case res.IsMalformed():
			l := res.Length()
			if err := c.malformed(s, in[:l], pos); err != nil {
				return s.stats, err
			}
			n = copy(in, in[l:n])
			pos += int64(l)
		case res.IsUnderflow() && eof:
			if n > 0 {
				if err := c.malformed(s, in[:n], pos); err != nil {
					return s.stats, err
				}
				pos += int64(n)
				n = 0
			}
			return s.stats, s.flush()
		}
	}
}

func (c *Converter) malformed(s *stream, p []byte, pos int64) error {
	s.stats.Malformed++
	c.log.Debug("malformed input",
		zap.Stringer("charset", c.opts.From),
		zap.Int64("offset", pos),
		zap.Int("length", len(p)),
		zap.Stringer("policy", c.opts.OnMalformed))

	switch c.opts.OnMalformed {
	case PolicySkip:
		return nil
	case PolicyReplace:
		return s.encode(s.dec.Replacement())
	default:
		return &ftcharset.MalformedError{
			Charset: c.opts.From,
			Offset:  pos,
			Length:  len(p),
			Input:   append([]byte(nil), p...),
		}
	}
}
