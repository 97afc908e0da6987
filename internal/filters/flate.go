package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and undoes any predictor named in params.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := zlibDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	return Unpredict(out, params)
}

// zlibDecompress decompresses zlib-compressed data. Stream bodies recovered
// by scanning for endstream are often cut short or carry trailing bytes, so
// a truncated or corrupt tail is tolerated once some output was produced.
func zlibDecompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readTolerant(zr)
}

// readTolerant reads r to the end, keeping what was read before a
// truncation or checksum error.
func readTolerant(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		if buf.Len() > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)) {
			return buf.Bytes(), nil
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
