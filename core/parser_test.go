package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParserScalars tests parsing of null, booleans and numbers
func TestParserScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"null", "null", Null{}},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"zero", "0", Int(0)},
		{"positive", "123", Int(123)},
		{"negative", "-456", Int(-456)},
		{"plus sign", "+7", Int(7)},
		{"real", "3.14", Real(3.14)},
		{"leading point", "-.5", Real(-0.5)},
		{"trailing point", "4.", Real(4)},
		{"exponent", "1e3", Real(1000)},
		{"leading whitespace", " \r\n% comment\n 42", Int(42)},
		{"double point salvaged", "1.2.3", Real(1.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := newTestParser(t, tt.input).ParseObject()
			require.NoError(t, err)
			assert.Equal(t, tt.want, obj)
		})
	}
}

// TestParserKeywordErrors tests misspelled keywords
func TestParserKeywordErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"bad null", "nil", KindUnexpectedByte},
		{"bad true", "trve", KindUnexpectedByte},
		{"short false", "fal", KindPrematureEnd},
		{"closing paren", ")", KindUnexpectedByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser(t, tt.input).ParseObject()
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

// TestParserLiteralString tests literal strings and escapes
func TestParserLiteralString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "(Hello World)", "Hello World"},
		{"empty", "()", ""},
		{"nested parens", "(a (nested) b)", "a (nested) b"},
		{"escapes", `(\n\r\t\b\f\(\)\\)`, "\n\r\t\b\f()\\"},
		{"octal", `(\101\102\103)`, "ABC"},
		{"short octal", `(\5x)`, "\x05x"},
		{"octal stops at three digits", `(\0053)`, "\x053"},
		{"unknown escape kept", `(\q)`, `\q`},
		{"line continuation", "(ab\\\r\n\r\ncd)", "abcd"},
		{"raw newline kept", "(a\nb)", "a\nb"},
		{"unterminated", "(never closed", "never closed"},
		{"unbalanced before CR LF slash", "(unbalanced ( paren)\r\n/Next", "unbalanced ( paren"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := newTestParser(t, tt.input).ParseObject()
			require.NoError(t, err)
			assert.Equal(t, String(tt.want), obj)
		})
	}
}

// TestParserHexString tests hexadecimal strings
func TestParserHexString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "<48656C6C6F>", "Hello"},
		{"lower case", "<48656c6c6f>", "Hello"},
		{"whitespace", "<48 65\n6C 6C 6F>", "Hello"},
		{"non-hex dropped", "<48zz656C6C6F>", "Hello"},
		{"odd digits padded", "<414>", "A@"},
		{"empty", "<>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := newTestParser(t, tt.input).ParseObject()
			require.NoError(t, err)
			assert.Equal(t, String(tt.want), obj)
		})
	}

	t.Run("unterminated", func(t *testing.T) {
		_, err := newTestParser(t, "<4142").ParseObject()
		assert.True(t, errors.Is(err, ErrPrematureEnd))
	})
}

// TestParserName tests names and #xx escapes
func TestParserName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{"simple", "/Type", "Type"},
		{"empty", "/ ", ""},
		{"hex escape", "/A#20B", "A B"},
		{"hex escape lower", "/A#2fB", "A/B"},
		{"hash without hex", "/A#zz", "A#zz"},
		{"hash one hex digit", "/A#2 ", "A#2"},
		{"stops at delimiter", "/Type/Page", "Type"},
		{"stops at dict end", "/Page>>", "Page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := newTestParser(t, tt.input).ParseObject()
			require.NoError(t, err)
			assert.Equal(t, tt.want, obj)
		})
	}
}

// TestParserArray tests arrays and reference collapsing
func TestParserArray(t *testing.T) {
	p := newTestParser(t, "[1 0 R 2 (x) /N [3] 1 0 R]")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	arr, ok := obj.(Array)
	require.True(t, ok, "expected Array, got %T", obj)
	require.Len(t, arr, 6)

	ref, ok := arr[0].(*IndirectObject)
	require.True(t, ok)
	assert.Equal(t, ObjectKey{Number: 1, Generation: 0}, ref.Key)
	assert.Same(t, ref, arr[5], "both references share the pool slot")
	slot, ok := p.Document().Pool().Lookup(ObjectKey{Number: 1})
	require.True(t, ok)
	assert.Same(t, slot, ref)

	assert.Equal(t, Int(2), arr[1])
	assert.Equal(t, String("x"), arr[2])
	assert.Equal(t, Name("N"), arr[3])
	assert.Equal(t, Array{Int(3)}, arr[4])
}

// TestParserArrayLenient tests damaged arrays
func TestParserArrayLenient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		dropped int
	}{
		{"empty", "[]", "[]", 0},
		{"R after name", "[/A R 5]", "[/A 5]", 1},
		{"R after one int", "[5 R]", "[]", 1},
		{"R after int and real", "[1 2.5 R 7]", "[1 2.5 7]", 1},
		{"three ints and R", "[1 2 3 R]", "[1 2 3 R]", 0},
		{"unclosed at EOF", "[1 2", "[1 2]", 0},
		{"stray garbage", "[1 {x} 2]", "[1 2]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, tt.input)
			obj, err := p.ParseObject()
			require.NoError(t, err)
			assert.Equal(t, tt.want, obj.String())
			assert.Equal(t, tt.dropped, p.Document().Diagnostics().DroppedArrayElements)
		})
	}
}

// TestParserArrayStopsAtEndObj tests an array cut off by endobj
func TestParserArrayStopsAtEndObj(t *testing.T) {
	p := newTestParser(t, "[(a) 1 endobj")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	assert.Equal(t, Array{String("a"), Int(1)}, obj)

	kw, err := p.Lexer().ReadBareString()
	require.NoError(t, err)
	assert.Equal(t, "endobj", kw, "endobj is left for the caller")
}

// TestParserDict tests dictionaries
func TestParserDict(t *testing.T) {
	p := newTestParser(t, "<< /Type /Page /Count 3 /Parent 4 0 R /Kids [5 0 R] /Sub << /A 1 >> >>")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	dict, ok := obj.(Dict)
	require.True(t, ok, "expected Dict, got %T", obj)

	name, _ := dict.GetName("Type")
	assert.Equal(t, Name("Page"), name)
	count, _ := dict.GetInt("Count")
	assert.Equal(t, Int(3), count)

	parent, ok := dict.GetIndirect("Parent")
	require.True(t, ok)
	assert.Equal(t, ObjectKey{Number: 4}, parent.Key)
	assert.Nil(t, dict.Get("Parent"), "unbound reference resolves to nil")

	p.Document().Pool().Bind(parent, Dict{"Type": Name("Pages")})
	pages, ok := dict.GetDict("Parent")
	require.True(t, ok, "reference resolves once the slot is bound")
	assert.Equal(t, Name("Pages"), pages["Type"])

	sub, ok := dict.GetDict("Sub")
	require.True(t, ok)
	assert.Equal(t, Int(1), sub["A"])
}

// TestParserDictLenient tests damaged dictionaries
func TestParserDictLenient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		resyncs int
	}{
		{"null value dropped", "<< /A null /B 1 >>", "<</B 1>>", 0},
		{"trailing def", "<< /Type /Test >> def", "<</Type /Test>>", 0},
		{"def after each value", "<< /A 1 def /B 2 def >>", "<</A 1 /B 2>>", 0},
		{"garbage key", "<< /A 1 garbage /B 2 >>", "<</A 1 /B 2>>", 1},
		{"garbage before end", "<< /A 1 ?? >>", "<</A 1>>", 1},
		{"unterminated", "<< /Type /Catalog", "<</Type /Catalog>>", 0},
		{"no space between entries", "<</A/B/C(x)>>", "<</A /B /C x>>", 0},
		{"dangling R value", "<< /A R /B 1 >>", "<</B 1>>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, tt.input)
			obj, err := p.ParseObject()
			require.NoError(t, err)
			assert.Equal(t, tt.want, obj.String())
			assert.Equal(t, tt.resyncs, p.Document().Diagnostics().DictResyncs)
		})
	}
}

// TestParserDictStopsAtEndObj tests a dictionary cut off by endobj
func TestParserDictStopsAtEndObj(t *testing.T) {
	p := newTestParser(t, "<< /A 1 endobj")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	assert.Equal(t, Dict{"A": Int(1)}, obj)

	kw, err := p.Lexer().ReadBareString()
	require.NoError(t, err)
	assert.Equal(t, "endobj", kw)
}

// TestParserDictBadReference tests "N G" not followed by R
func TestParserDictBadReference(t *testing.T) {
	_, err := newTestParser(t, "<< /A 1 2 /B 3 >>").ParseObject()
	assert.True(t, errors.Is(err, ErrUnexpectedByte), "got %v", err)
}

// TestParserNonNumericToken tests sign and point tokens with no digits
func TestParserNonNumericToken(t *testing.T) {
	for _, input := range []string{"-", "+", ".", "--", "--5"} {
		t.Run(input, func(t *testing.T) {
			p := newTestParser(t, input)
			obj, err := p.ParseObject()
			require.NoError(t, err)
			assert.Nil(t, obj)
			assert.Equal(t, 1, p.Document().Diagnostics().SkippedTokens)
			assert.Equal(t, 0, p.Document().Diagnostics().RepairedNumbers)
		})
	}

	p := newTestParser(t, "[- 1]")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	assert.Equal(t, Array{Int(1)}, obj)
	assert.Equal(t, 1, p.Document().Diagnostics().DroppedArrayElements)

	p = newTestParser(t, "<< /A - /B 2 >>")
	obj, err = p.ParseObject()
	require.NoError(t, err)
	assert.Equal(t, Dict{"B": Int(2)}, obj)
	assert.Equal(t, 1, p.Document().Diagnostics().DroppedDictValues)
}

// TestParserGarbageValue tests values that are skipped
func TestParserGarbageValue(t *testing.T) {
	p := newTestParser(t, "{abc} 5")
	obj, err := p.ParseObject()
	require.NoError(t, err)
	assert.Nil(t, obj)
	assert.Equal(t, 1, p.Document().Diagnostics().SkippedTokens)

	obj, err = p.ParseObject()
	require.NoError(t, err)
	assert.Equal(t, Int(5), obj)

	obj, err = p.ParseObject()
	require.NoError(t, err)
	assert.Nil(t, obj, "end of input")
}

// TestParseNumberHelpers tests the exported token converters
func TestParseNumberHelpers(t *testing.T) {
	i, err := ParseInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, Int(12), i)

	_, err = ParseInt("1.5")
	assert.True(t, errors.Is(err, ErrNotAnInteger))

	r, err := ParseReal("2.5")
	require.NoError(t, err)
	assert.Equal(t, Real(2.5), r)

	_, err = ParseReal("x")
	assert.True(t, errors.Is(err, ErrNotAFloat))
}
