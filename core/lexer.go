package core

import (
	"io"
	"strconv"
	"strings"
)

// eof is returned by the lexer's byte readers at end of input.
const eof = -1

// Lexer reads the low-level lexical units of PDF syntax: whitespace and
// comments, lines, bare keyword strings and integers. It never fails on
// unexpected bytes by itself; callers decide how lenient to be.
type Lexer struct {
	r *PushbackReader
}

// NewLexer creates a new lexer over a pushback reader
func NewLexer(r *PushbackReader) *Lexer {
	return &Lexer{r: r}
}

// Reader returns the underlying pushback reader
func (l *Lexer) Reader() *PushbackReader {
	return l.r
}

// Offset returns the absolute offset of the next unread byte
func (l *Lexer) Offset() int64 {
	return l.r.Offset()
}

// read consumes one byte, returning eof at end of input. Only real I/O
// failures are reported as errors.
func (l *Lexer) read() (int, error) {
	b, err := l.r.ReadByte()
	if err == io.EOF {
		return eof, nil
	}
	if err != nil {
		return eof, err
	}
	return int(b), nil
}

// peek returns the next byte without consuming it, or eof.
func (l *Lexer) peek() (int, error) {
	b, err := l.r.Peek()
	if err == io.EOF {
		return eof, nil
	}
	if err != nil {
		return eof, err
	}
	return int(b), nil
}

func (l *Lexer) unread(c int) {
	if c != eof {
		l.r.UnreadByte(byte(c))
	}
}

// Peek returns the next byte without consuming it, or -1 at end of input
func (l *Lexer) Peek() (int, error) {
	return l.peek()
}

// AtEnd reports whether the input is exhausted
func (l *Lexer) AtEnd() bool {
	return l.r.IsAtEnd()
}

// SkipSpaces consumes whitespace and comments. A comment runs from '%' to
// the next end-of-line byte or end of input.
func (l *Lexer) SkipSpaces() error {
	c, err := l.read()
	for err == nil && (isWhitespace(c) || c == '%') {
		if c == '%' {
			c, err = l.read()
			for err == nil && !isEOL(c) && c != eof {
				c, err = l.read()
			}
			continue
		}
		c, err = l.read()
	}
	if err != nil {
		return err
	}
	l.unread(c)
	return nil
}

// ReadLine reads up to the next CR or LF. The terminator is consumed but not
// returned; a CR LF pair leaves the LF to be skipped as whitespace.
func (l *Lexer) ReadLine() (string, error) {
	if l.r.IsAtEnd() {
		return "", newError(KindPrematureEnd, l.Offset(), "expected a line")
	}
	var buf strings.Builder
	for {
		c, err := l.read()
		if err != nil {
			return buf.String(), err
		}
		if c == eof || isEOL(c) {
			break
		}
		buf.WriteByte(byte(c))
	}
	return buf.String(), nil
}

// ReadBareString skips whitespace and reads bytes up to the next name
// terminator or ']'. It is used to read keywords such as obj, endobj,
// stream, trailer and def. The terminator is left unread.
func (l *Lexer) ReadBareString() (string, error) {
	if err := l.SkipSpaces(); err != nil {
		return "", err
	}
	var buf strings.Builder
	c, err := l.read()
	for err == nil && c != eof && !isEndOfName(c) {
		buf.WriteByte(byte(c))
		c, err = l.read()
	}
	if err != nil {
		return buf.String(), err
	}
	l.unread(c)
	return buf.String(), nil
}

// ReadBoundedString is like ReadBareString but reads at most max bytes and
// also stops at whitespace and at the start of a nested value ('[', '<',
// '(' or '/'). It reads the "obj" keyword after an object header, where the
// value may follow with no separator.
func (l *Lexer) ReadBoundedString(max int) (string, error) {
	if err := l.SkipSpaces(); err != nil {
		return "", err
	}
	var buf strings.Builder
	c, err := l.read()
	for err == nil && c != eof && buf.Len() < max && !isWhitespace(c) && !isEndOfName(c) {
		buf.WriteByte(byte(c))
		c, err = l.read()
	}
	if err != nil {
		return buf.String(), err
	}
	l.unread(c)
	return buf.String(), nil
}

// ReadInt skips whitespace and reads a base-10 integer terminated by a
// space, CR, LF, '<', NUL or end of input. On failure the bytes read are
// pushed back and a NotAnInteger error is returned.
func (l *Lexer) ReadInt() (int, error) {
	if err := l.SkipSpaces(); err != nil {
		return 0, err
	}
	start := l.Offset()
	var buf []byte
	c, err := l.read()
	for err == nil && c != eof && c != ' ' && c != '\n' && c != '\r' && c != '<' && c != 0 {
		buf = append(buf, byte(c))
		c, err = l.read()
	}
	if err != nil {
		return 0, err
	}
	l.unread(c)
	n, convErr := strconv.Atoi(string(buf))
	if convErr != nil {
		l.r.Unread(buf)
		return 0, newError(KindNotAnInteger, start, "expected an integer, got %q", buf)
	}
	return n, nil
}

// ReadExpected consumes one byte and fails with UnexpectedByte if it is not
// want.
func (l *Lexer) ReadExpected(want byte) error {
	c, err := l.read()
	if err != nil {
		return err
	}
	if c != int(want) {
		if c == eof {
			return newError(KindPrematureEnd, l.Offset(), "expected %q", want)
		}
		return newError(KindUnexpectedByte, l.Offset()-1, "expected %q, got %q", want, byte(c))
	}
	return nil
}

// PDF whitespace: NUL, tab, LF, FF, CR, space
func isWhitespace(c int) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isEOL(c int) bool {
	return c == '\n' || c == '\r'
}

// isEndOfName reports whether c ends a name or bare keyword.
func isEndOfName(c int) bool {
	switch c {
	case ' ', '\r', '\n', '\t', '<', '>', '[', '/', ']', '(', ')', eof:
		return true
	}
	return false
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isOctalDigit(c int) bool {
	return c >= '0' && c <= '7'
}

func isHexDigit(c int) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c int) byte {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0')
	case c >= 'a' && c <= 'f':
		return byte(c - 'a' + 10)
	case c >= 'A' && c <= 'F':
		return byte(c - 'A' + 10)
	}
	return 0
}
