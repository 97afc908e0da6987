package filters

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode expands LZW data with 8-bit literals and MSB-first codes.
// EarlyChange (default 1) selects the code-width switch one code early,
// the same variant TIFF uses. Predictors are undone as for FlateDecode.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	var r io.ReadCloser
	if params.Int("EarlyChange", 1) == 0 {
		r = lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	} else {
		r = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	}
	defer r.Close()

	out, err := readTolerant(r)
	if err != nil {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}
	return Unpredict(out, params)
}
