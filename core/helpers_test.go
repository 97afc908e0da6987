package core

import (
	"bytes"
	"compress/zlib"
	"strings"
	"testing"
)

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// newTestDocument returns a lenient document released when the test ends.
func newTestDocument(t *testing.T) *Document {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ScratchDir = t.TempDir()
	doc := NewDocument(cfg)
	t.Cleanup(func() { doc.Close() })
	return doc
}

// newTestParser returns a parser over input bound to a fresh document.
func newTestParser(t *testing.T, input string) *Parser {
	t.Helper()
	return NewDocumentParser(strings.NewReader(input), newTestDocument(t))
}

// parseTestPDF runs the body parser over input with the given leniency.
func parseTestPDF(t *testing.T, input string, lenient bool) (*Document, error) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Lenient = lenient
	cfg.ScratchDir = t.TempDir()
	doc, err := Parse(strings.NewReader(input), cfg)
	if doc != nil {
		t.Cleanup(func() { doc.Close() })
	}
	return doc, err
}
