package info

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/cosparse/core"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("Annual Report"), "Annual Report"},
		{"latin1", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"pdfdoc specials", []byte{0x93, 'x', 0x92, ' ', 0xA0, '5'}, "ﬁx™ €5"},
		{"pdfdoc quotes", []byte{0x8D, 'q', 0x8E}, "“q”"},
		{"utf16be", []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i', 0x04, 0x14}, "HiД"},
		{"utf16be surrogate pair", []byte{0xFE, 0xFF, 0xD8, 0x3D, 0xDE, 0x00}, "😀"},
		{"utf16be odd length", []byte{0xFE, 0xFF, 0x00, 'A', 0x00}, "A"},
		{"utf16le", []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00}, "ok"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "naïve"...), "naïve"},
		{"nfc", append([]byte{0xEF, 0xBB, 0xBF}, "e\u0301"...), "\u00e9"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	est := time.FixedZone("", -5*3600)
	ist := time.FixedZone("", 5*3600+30*60)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"D:20230415103000Z", time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)},
		{"D:20230415103000-05'00'", time.Date(2023, 4, 15, 10, 30, 0, 0, est)},
		{"D:20230415103000+05'30", time.Date(2023, 4, 15, 10, 30, 0, 0, ist)},
		{"D:20230415103000+0530", time.Date(2023, 4, 15, 10, 30, 0, 0, ist)},
		{"D:20230415103000", time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)},
		{"D:2023", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"D:202304", time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"20230415", time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)},
		{" D:19991231235959Z junk", time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			_, wantOff := tt.want.Zone()
			_, gotOff := got.Zone()
			assert.Equal(t, wantOff, gotOff)
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	tests := []string{
		"",
		"D:",
		"D:abc",
		"D:20231301",
		"D:2023041525",
		"D:20230415103000+25'00'",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			assert.Error(t, err)
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC), "D:20230415103000Z"},
		{time.Date(2023, 4, 15, 10, 30, 0, 0, time.FixedZone("", -5*3600)), "D:20230415103000-05'00'"},
		{time.Date(2023, 4, 15, 10, 30, 0, 0, time.FixedZone("", 5*3600+30*60)), "D:20230415103000+05'30'"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
			back, err := ParseDate(tt.want)
			require.NoError(t, err)
			assert.True(t, tt.in.Equal(back))
		})
	}
}

func TestFromDict(t *testing.T) {
	author := &core.IndirectObject{Key: core.ObjectKey{Number: 9}, Object: core.String("Jane Doe")}
	dict := core.Dict{
		"Title":        core.String([]byte{0xFE, 0xFF, 0x00, 'T', 0x00, 'o', 0x00, 'c'}),
		"Author":       author,
		"Subject":      core.String("  padded  "),
		"Keywords":     core.String("pdf, parser; ,cos"),
		"Creator":      core.Name("Writer"),
		"Producer":     core.Int(3),
		"CreationDate": core.String("D:20200102030405Z"),
		"ModDate":      core.String("not a date"),
		"Trapped":      core.Name("False"),
		"Company":      core.String("Acme"),
		"Pages":        core.Int(12),
	}

	m := FromDict(dict)
	assert.Equal(t, "Toc", m.Title)
	assert.Equal(t, "Jane Doe", m.Author)
	assert.Equal(t, "padded", m.Subject)
	assert.Equal(t, []string{"pdf", "parser", "cos"}, m.Keywords)
	assert.Equal(t, "Writer", m.Creator)
	assert.Empty(t, m.Producer)
	assert.True(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC).Equal(m.CreationDate))
	assert.True(t, m.ModDate.IsZero())
	assert.Equal(t, "False", m.Trapped)
	assert.Equal(t, map[string]string{"Company": "Acme"}, m.Custom)
	assert.Equal(t, []string{"Company"}, m.CustomKeys())
	assert.False(t, m.IsEmpty())
}

func TestFromDictTrapped(t *testing.T) {
	tests := []struct {
		name  string
		value core.Object
		want  string
	}{
		{"name", core.Name("Unknown"), "Unknown"},
		{"bool true", core.Bool(true), "True"},
		{"bool false", core.Bool(false), "False"},
		{"string", core.String("True"), "True"},
		{"missing", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := core.Dict{}
			if tt.value != nil {
				dict["Trapped"] = tt.value
			}
			assert.Equal(t, tt.want, FromDict(dict).Trapped)
		})
	}
}

func TestFromDictEmpty(t *testing.T) {
	m := FromDict(nil)
	assert.True(t, m.IsEmpty())
	assert.Nil(t, m.Custom)
	assert.Empty(t, m.CustomKeys())
}

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, SplitKeywords(""))
	assert.Nil(t, SplitKeywords(" ,; "))
	assert.Equal(t, []string{"a b", "c"}, SplitKeywords(" a b ;c"))
}
