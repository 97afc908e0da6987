package core

import (
	"bufio"
	"io"
)

// DefaultPushbackSize is the initial capacity of a PushbackReader's unread
// buffer. The buffer grows when more bytes are pushed back.
const DefaultPushbackSize = 64 * 1024

// PushbackReader is a buffered byte reader with multi-byte unread, one byte
// of lookahead and absolute offset tracking.
//
// Offset always equals the number of bytes consumed minus the number of
// bytes currently pushed back. Pushed back bytes need not have come from the
// reader; the parser re-injects keywords and separators it synthesises.
type PushbackReader struct {
	src    *bufio.Reader
	closer io.Closer
	back   []byte // LIFO; the next byte to read is back[len(back)-1]
	offset int64
	err    error // sticky non-EOF error from src
}

// NewPushbackReader creates a PushbackReader over r. If r implements
// io.Closer it is closed by Close.
func NewPushbackReader(r io.Reader) *PushbackReader {
	return NewPushbackReaderSize(r, DefaultPushbackSize)
}

// NewPushbackReaderSize creates a PushbackReader with the given initial
// pushback capacity.
func NewPushbackReaderSize(r io.Reader, size int) *PushbackReader {
	if size <= 0 {
		size = DefaultPushbackSize
	}
	p := &PushbackReader{
		src:  bufio.NewReader(r),
		back: make([]byte, 0, size),
	}
	if c, ok := r.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// ReadByte consumes one byte. It returns io.EOF at end of input.
func (p *PushbackReader) ReadByte() (byte, error) {
	if n := len(p.back); n > 0 {
		b := p.back[n-1]
		p.back = p.back[:n-1]
		p.offset++
		return b, nil
	}
	if p.err != nil {
		return 0, p.err
	}
	b, err := p.src.ReadByte()
	if err != nil {
		if err != io.EOF {
			p.err = err
		}
		return 0, err
	}
	p.offset++
	return b, nil
}

// Peek returns the next byte without consuming it.
func (p *PushbackReader) Peek() (byte, error) {
	if n := len(p.back); n > 0 {
		return p.back[n-1], nil
	}
	if p.err != nil {
		return 0, p.err
	}
	buf, err := p.src.Peek(1)
	if err != nil {
		if err != io.EOF {
			p.err = err
		}
		return 0, err
	}
	return buf[0], nil
}

// UnreadByte pushes b back so that it is returned by the next read.
func (p *PushbackReader) UnreadByte(b byte) {
	p.back = append(p.back, b)
	p.offset--
}

// Unread pushes buf back; the next reads return buf[0], buf[1], ...
func (p *PushbackReader) Unread(buf []byte) {
	for i := len(buf) - 1; i >= 0; i-- {
		p.back = append(p.back, buf[i])
	}
	p.offset -= int64(len(buf))
}

// Read implements io.Reader, draining pushed back bytes first.
func (p *PushbackReader) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n := 0
	for n < len(buf) && len(p.back) > 0 {
		last := len(p.back) - 1
		buf[n] = p.back[last]
		p.back = p.back[:last]
		n++
	}
	if n > 0 {
		p.offset += int64(n)
		return n, nil
	}
	if p.err != nil {
		return 0, p.err
	}
	n, err := p.src.Read(buf)
	p.offset += int64(n)
	if err != nil && err != io.EOF {
		p.err = err
	}
	return n, err
}

// ReadFully reads exactly n bytes. It fails with a PrematureEnd error when
// the input ends first; the bytes read so far are consumed.
func (p *PushbackReader) ReadFully(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(p, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return buf[:got], newError(KindPrematureEnd, p.offset, "expected %d bytes, got %d", n, got)
		}
		return buf[:got], err
	}
	return buf, nil
}

// IsAtEnd reports whether no more bytes can be read.
func (p *PushbackReader) IsAtEnd() bool {
	_, err := p.Peek()
	return err != nil
}

// Offset returns the absolute offset of the next byte to be read.
func (p *PushbackReader) Offset() int64 {
	return p.offset
}

// Close closes the underlying source if it is an io.Closer. It is safe to
// call more than once.
func (p *PushbackReader) Close() error {
	c := p.closer
	p.closer = nil
	p.back = nil
	if c != nil {
		return c.Close()
	}
	return nil
}

// Err returns the first non-EOF error the underlying source reported, if any
func (p *PushbackReader) Err() error {
	return p.err
}
