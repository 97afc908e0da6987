package filters

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"testing"
)

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func TestFlateDecode(t *testing.T) {
	original := []byte("Hello, World! This is test data for FlateDecode.")

	decoded, err := FlateDecode(zlibCompress(original), nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
}

func TestFlateDecodeWithPredictor(t *testing.T) {
	rows := []byte{2, 1, 2, 3, 2, 1, 1, 1}
	params := Params{"Predictor": 12, "Columns": 3}

	decoded, err := FlateDecode(zlibCompress(rows), params)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if want := []byte{1, 2, 3, 2, 3, 4}; !bytes.Equal(decoded, want) {
		t.Errorf("got %v, want %v", decoded, want)
	}
}

func TestFlateDecodeInvalid(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib"), nil); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

func TestFlateDecodeTruncated(t *testing.T) {
	original := bytes.Repeat([]byte("truncated stream body "), 200)
	compressed := zlibCompress(original)

	decoded, err := FlateDecode(compressed[:len(compressed)-10], nil)
	if err != nil {
		t.Fatalf("expected truncated data to be tolerated, got %v", err)
	}
	if len(decoded) == 0 || !bytes.HasPrefix(original, decoded) {
		t.Errorf("expected a prefix of the original, got %d bytes", len(decoded))
	}
}

func TestLZWDecode(t *testing.T) {
	// The "-----A---B" sample from the PDF reference.
	encoded := []byte{0x80, 0x0B, 0x60, 0x50, 0x22, 0x0C, 0x0C, 0x85, 0x01}

	for _, early := range []int{0, 1} {
		decoded, err := LZWDecode(encoded, Params{"EarlyChange": early})
		if err != nil {
			t.Fatalf("EarlyChange %d: %v", early, err)
		}
		if string(decoded) != "-----A---B" {
			t.Errorf("EarlyChange %d: got %q", early, decoded)
		}
	}
}

func TestLZWDecodeLateChange(t *testing.T) {
	original := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789"), 100)
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.MSB, 8)
	w.Write(original)
	w.Close()

	decoded, err := LZWDecode(buf.Bytes(), Params{"EarlyChange": 0})
	if err != nil {
		t.Fatalf("LZWDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("decoded %d bytes, want %d", len(decoded), len(original))
	}
}
