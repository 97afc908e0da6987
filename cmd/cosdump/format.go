package main

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/cosparse/core"
)

// formatObject writes obj in PDF syntax. References are printed as "N G R"
// and are not followed. Strings that are not printable text come out as hex.
func formatObject(obj core.Object) string {
	var sb strings.Builder
	writeObject(&sb, obj, "")
	return sb.String()
}

func writeObject(sb *strings.Builder, obj core.Object, indent string) {
	switch v := obj.(type) {
	case nil:
		sb.WriteString("null")
	case core.String:
		writeString(sb, string(v))
	case core.Array:
		sb.WriteString("[")
		for i, elem := range v {
			if i > 0 {
				sb.WriteString(" ")
			}
			writeObject(sb, elem, indent)
		}
		sb.WriteString("]")
	case core.Dict:
		writeDict(sb, v, indent)
	case *core.Stream:
		writeDict(sb, v.Dict, indent)
		fmt.Fprintf(sb, "\n%sstream (%d bytes)", indent, v.Len())
	default:
		sb.WriteString(obj.String())
	}
}

func writeDict(sb *strings.Builder, dict core.Dict, indent string) {
	if len(dict) == 0 {
		sb.WriteString("<< >>")
		return
	}
	keys := dict.Keys()
	sort.Strings(keys)
	inner := indent + "  "
	sb.WriteString("<<\n")
	for _, key := range keys {
		fmt.Fprintf(sb, "%s/%s ", inner, key)
		writeObject(sb, dict.Raw(key), inner)
		sb.WriteString("\n")
	}
	sb.WriteString(indent + ">>")
}

func writeString(sb *strings.Builder, s string) {
	if !isPrintable(s) {
		fmt.Fprintf(sb, "<%X>", s)
		return
	}
	sb.WriteByte('(')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(')')
}

func isPrintable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
		if r == 0x7F || r == utf8.RuneError {
			return false
		}
	}
	return true
}

// typeName describes obj for listings: the object kind, plus /Type or
// /Subtype for dictionaries and streams.
func typeName(obj core.Object) string {
	var dict core.Dict
	switch v := core.Resolve(obj).(type) {
	case core.Dict:
		dict = v
	case *core.Stream:
		dict = v.Dict
	case nil:
		return "undefined"
	default:
		return v.Type().String()
	}
	kind := core.Resolve(obj).Type().String()
	if t, ok := dict.GetName("Type"); ok {
		kind += " /" + string(t)
	}
	if s, ok := dict.GetName("Subtype"); ok {
		kind += " /" + string(s)
	}
	return kind
}
