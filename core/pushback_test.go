package core

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushbackReaderOffset(t *testing.T) {
	r := NewPushbackReader(strings.NewReader("abcdef"))

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, int64(1), r.Offset())

	buf, err := r.ReadFully(3)
	require.NoError(t, err)
	assert.Equal(t, "bcd", string(buf))
	assert.Equal(t, int64(4), r.Offset())

	r.Unread(buf)
	assert.Equal(t, int64(1), r.Offset(), "offset is consumed minus pushed back")

	// Bytes that never came from the source may be pushed back too.
	r.Unread([]byte("XY"))
	assert.Equal(t, int64(-1), r.Offset())

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "XYbcdef", string(rest))
	assert.Equal(t, int64(6), r.Offset())
	assert.True(t, r.IsAtEnd())
}

func TestPushbackReaderUnreadOrder(t *testing.T) {
	r := NewPushbackReaderSize(strings.NewReader("z"), 1)
	r.UnreadByte('c')
	r.Unread([]byte("ab"))

	got, err := r.ReadFully(4)
	require.NoError(t, err)
	assert.Equal(t, "abcz", string(got))
}

func TestPushbackReaderPeek(t *testing.T) {
	r := NewPushbackReader(strings.NewReader("q"))
	b, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, byte('q'), b)
	assert.Equal(t, int64(0), r.Offset())

	r.UnreadByte('p')
	b, err = r.Peek()
	require.NoError(t, err)
	assert.Equal(t, byte('p'), b)
}

func TestPushbackReaderReadFullyShort(t *testing.T) {
	r := NewPushbackReader(strings.NewReader("ab"))
	got, err := r.ReadFully(5)
	assert.Equal(t, "ab", string(got))
	assert.True(t, errors.Is(err, ErrPrematureEnd))
	assert.Equal(t, KindPrematureEnd, KindOf(err))
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestPushbackReaderStickyError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewPushbackReader(failingReader{boom})

	_, err := r.ReadByte()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, r.Err(), boom)
	assert.True(t, r.IsAtEnd())

	r.UnreadByte('x')
	b, err := r.ReadByte()
	require.NoError(t, err, "pushed back bytes are still readable")
	assert.Equal(t, byte('x'), b)
}

type closeCounter struct {
	io.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestPushbackReaderClose(t *testing.T) {
	src := &closeCounter{Reader: strings.NewReader("x")}
	r := NewPushbackReader(src)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, src.closed)
}
