package info

import (
	"sort"
	"strings"
	"time"

	"github.com/tsawler/cosparse/core"
)

// Metadata is the decoded document information dictionary.
type Metadata struct {
	Title        string            `json:"title,omitempty"`
	Author       string            `json:"author,omitempty"`
	Subject      string            `json:"subject,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	Creator      string            `json:"creator,omitempty"`
	Producer     string            `json:"producer,omitempty"`
	CreationDate time.Time         `json:"creationDate"`
	ModDate      time.Time         `json:"modDate"`
	Trapped      string            `json:"trapped,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// standardKeys are the entries with a field of their own
var standardKeys = map[string]bool{
	"Title": true, "Author": true, "Subject": true, "Keywords": true,
	"Creator": true, "Producer": true, "CreationDate": true, "ModDate": true,
	"Trapped": true,
}

// FromDict decodes an information dictionary. Missing or mistyped entries
// are left empty; a date that does not parse is left zero.
func FromDict(dict core.Dict) *Metadata {
	m := &Metadata{
		Title:    textEntry(dict, "Title"),
		Author:   textEntry(dict, "Author"),
		Subject:  textEntry(dict, "Subject"),
		Creator:  textEntry(dict, "Creator"),
		Producer: textEntry(dict, "Producer"),
		Keywords: SplitKeywords(textEntry(dict, "Keywords")),
	}
	m.CreationDate, _ = ParseDate(textEntry(dict, "CreationDate"))
	m.ModDate, _ = ParseDate(textEntry(dict, "ModDate"))

	switch v := dict.Get("Trapped").(type) {
	case core.Name:
		m.Trapped = string(v)
	case core.Bool:
		// Written as a boolean by some producers
		if v {
			m.Trapped = "True"
		} else {
			m.Trapped = "False"
		}
	case core.String:
		m.Trapped = DecodeText([]byte(v))
	}

	for _, key := range dict.Keys() {
		if standardKeys[key] {
			continue
		}
		if text, ok := entryText(dict.Get(key)); ok {
			if m.Custom == nil {
				m.Custom = make(map[string]string)
			}
			m.Custom[key] = text
		}
	}
	return m
}

// CustomKeys returns the custom entry names in sorted order
func (m *Metadata) CustomKeys() []string {
	keys := make([]string, 0, len(m.Custom))
	for k := range m.Custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether no entry was decoded
func (m *Metadata) IsEmpty() bool {
	return m.Title == "" && m.Author == "" && m.Subject == "" && len(m.Keywords) == 0 &&
		m.Creator == "" && m.Producer == "" && m.CreationDate.IsZero() && m.ModDate.IsZero() &&
		m.Trapped == "" && len(m.Custom) == 0
}

func textEntry(dict core.Dict, key string) string {
	text, _ := entryText(dict.Get(key))
	return strings.TrimSpace(text)
}

func entryText(obj core.Object) (string, bool) {
	switch v := obj.(type) {
	case core.String:
		return DecodeText([]byte(v)), true
	case core.Name:
		return string(v), true
	}
	return "", false
}

// SplitKeywords splits a /Keywords entry on commas and semicolons,
// dropping empty items.
func SplitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
