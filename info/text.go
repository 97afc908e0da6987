package info

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var (
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// pdfDocDiffs holds the PDFDocEncoding code points that differ from
// ISO Latin-1. 0x7F, 0x9F and 0xAD are undefined.
var pdfDocDiffs = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙',
	0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x7F: utf8.RuneError,
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
	0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0x9F: utf8.RuneError,
	0xA0: '€', 0xAD: utf8.RuneError,
}

// DecodeText converts a PDF text string to UTF-8. Strings starting with a
// UTF-16 or UTF-8 byte order mark are decoded accordingly; anything else
// is PDFDocEncoding. The result is NFC-normalised.
func DecodeText(b []byte) string {
	var s string
	switch {
	case bytes.HasPrefix(b, bomUTF16BE):
		s = decodeUTF16(b, unicode.BigEndian)
	case bytes.HasPrefix(b, bomUTF16LE):
		// Not allowed, but some producers write it
		s = decodeUTF16(b, unicode.LittleEndian)
	case bytes.HasPrefix(b, bomUTF8):
		s = strings.ToValidUTF8(string(b[len(bomUTF8):]), string(utf8.RuneError))
	default:
		s = decodePDFDoc(b)
	}
	return norm.NFC.String(s)
}

func decodeUTF16(b []byte, order unicode.Endianness) string {
	if len(b)%2 != 0 {
		// Drop a dangling half code unit
		b = b[:len(b)-1]
	}
	out, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(b)
	if err != nil {
		return decodePDFDoc(b)
	}
	return string(out)
}

func decodePDFDoc(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r, ok := pdfDocDiffs[c]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
