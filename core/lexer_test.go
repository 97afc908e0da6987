package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLexer(input string) *Lexer {
	return NewLexer(NewPushbackReader(strings.NewReader(input)))
}

// TestLexerSkipSpaces tests whitespace and comment skipping
func TestLexerSkipSpaces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		next  int
	}{
		{"spaces", "   x", 'x'},
		{"all whitespace kinds", "\x00\t\n\f\r x", 'x'},
		{"comment to LF", "% comment\nx", 'x'},
		{"comment to CR", "% comment\rx", 'x'},
		{"comments and spaces", "  %a\r\n %b\n\tx", 'x'},
		{"comment to EOF", "% only a comment", eof},
		{"nothing to skip", "x", 'x'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTestLexer(tt.input)
			require.NoError(t, lex.SkipSpaces())
			c, err := lex.Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.next, c)
		})
	}
}

// TestLexerReadLine tests line reading with each terminator
func TestLexerReadLine(t *testing.T) {
	lex := newTestLexer("first\nsecond\r\nthird\rlast")

	line, err := lex.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = lex.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	// The LF of CR LF is left for whitespace skipping.
	require.NoError(t, lex.SkipSpaces())
	line, err = lex.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "third", line)

	line, err = lex.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = lex.ReadLine()
	assert.True(t, errors.Is(err, ErrPrematureEnd))
}

// TestLexerReadBareString tests keyword reading
func TestLexerReadBareString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		next  int
	}{
		{"keyword", "  endobj\n", "endobj", '\n'},
		{"stops at bracket", "endobj]", "endobj", ']'},
		{"stops at dict", "trailer<<", "trailer", '<'},
		{"stops at name", "def/Key", "def", '/'},
		{"glued garbage kept", "endstream8endobj", "endstream8endobj", eof},
		{"empty at delimiter", ")", "", ')'},
		{"empty at EOF", "   ", "", eof},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTestLexer(tt.input)
			got, err := lex.ReadBareString()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			c, err := lex.Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.next, c)
		})
	}
}

// TestLexerReadBoundedString tests the "obj" keyword reader
func TestLexerReadBoundedString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		next  int
	}{
		{"obj then dict", "obj<<", "obj", '<'},
		{"obj then array", "obj[1]", "obj", '['},
		{"obj then string", "obj(x)", "obj", '('},
		{"obj then name", "obj/N", "obj", '/'},
		{"truncated keyword", "o 5", "o", ' '},
		{"longer keyword cut", "objx", "obj", 'x'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTestLexer(tt.input)
			got, err := lex.ReadBoundedString(3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			c, err := lex.Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.next, c)
		})
	}
}

// TestLexerReadInt tests integer reading and failure pushback
func TestLexerReadInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		next    int
		wantErr bool
	}{
		{"simple", "42 ", 42, ' ', false},
		{"leading whitespace", " \r\n -7\n", -7, '\n', false},
		{"plus sign", "+3 ", 3, ' ', false},
		{"stops at dict", "12<<", 12, '<', false},
		{"at EOF", "99", 99, eof, false},
		{"not a number", "abc ", 0, 'a', true},
		{"empty", "<<", 0, '<', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTestLexer(tt.input)
			got, err := lex.ReadInt()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNotAnInteger), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			c, err := lex.Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.next, c)
		})
	}
}

// TestLexerReadExpected tests single byte expectations
func TestLexerReadExpected(t *testing.T) {
	lex := newTestLexer("<x")
	require.NoError(t, lex.ReadExpected('<'))

	err := lex.ReadExpected('<')
	assert.True(t, errors.Is(err, ErrUnexpectedByte))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int64(1), pe.Offset)

	err = lex.ReadExpected('>')
	assert.True(t, errors.Is(err, ErrPrematureEnd))
}

// TestLexerCharacterClasses tests the byte classification helpers
func TestLexerCharacterClasses(t *testing.T) {
	for _, c := range []int{0, '\t', '\n', '\f', '\r', ' '} {
		assert.True(t, isWhitespace(c), "whitespace %q", c)
	}
	assert.False(t, isWhitespace('a'))

	for _, c := range []int{' ', '\r', '\n', '\t', '<', '>', '[', ']', '/', '(', ')', eof} {
		assert.True(t, isEndOfName(c), "end of name %q", c)
	}
	assert.False(t, isEndOfName('#'))
	assert.False(t, isEndOfName('{'))

	assert.Equal(t, byte(0xA), hexValue('a'))
	assert.Equal(t, byte(0xF), hexValue('F'))
	assert.Equal(t, byte(7), hexValue('7'))
	assert.True(t, isOctalDigit('7'))
	assert.False(t, isOctalDigit('8'))
}
