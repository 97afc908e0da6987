package filters

import "fmt"

// Unpredict reverses the Predictor named in params. Predictor 1 or a
// missing entry leaves data unchanged; 2 is TIFF horizontal differencing
// and 10 to 15 are the PNG filters, chosen per row by the row's tag byte.
func Unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", 1)
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return unpredictTIFF(data, params)
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// rowGeometry returns bytes per pixel (at least 1) and bytes per row.
func rowGeometry(params Params) (bpp, rowLen int, err error) {
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)
	columns := params.Int("Columns", 1)
	if colors < 1 || columns < 1 {
		return 0, 0, fmt.Errorf("invalid predictor geometry: %d colors, %d columns", colors, columns)
	}
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return 0, 0, fmt.Errorf("invalid BitsPerComponent %d", bpc)
	}
	bpp = (colors*bpc + 7) / 8
	rowLen = (colors*bpc*columns + 7) / 8
	return bpp, rowLen, nil
}

// unpredictTIFF adds each sample to the one to its left. Only whole-byte
// samples are supported.
func unpredictTIFF(data []byte, params Params) ([]byte, error) {
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component is not supported", bpc)
	}
	bpp, rowLen, err := rowGeometry(params)
	if err != nil {
		return nil, err
	}
	if len(data)%rowLen != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowLen)
	}

	out := append([]byte(nil), data...)
	for start := 0; start < len(out); start += rowLen {
		row := out[start : start+rowLen]
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	}
	return out, nil
}

// unpredictPNG decodes rows of one tag byte plus rowLen data bytes. A short
// final row is decoded as far as it goes.
func unpredictPNG(data []byte, params Params) ([]byte, error) {
	bpp, rowLen, err := rowGeometry(params)
	if err != nil {
		return nil, err
	}
	stride := rowLen + 1
	rows := (len(data) + stride - 1) / stride

	out := make([]byte, 0, rows*rowLen)
	prev := make([]byte, rowLen)
	for r := 0; r < rows; r++ {
		src := data[r*stride:]
		if len(src) > stride {
			src = src[:stride]
		}
		tag, src := src[0], src[1:]
		cur := make([]byte, len(src))
		if err := unfilterRow(tag, cur, src, prev[:len(src)], bpp); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		out = append(out, cur...)
		copy(prev, cur)
	}
	return out, nil
}

// unfilterRow undoes PNG filter tag on src into cur, given the previous
// decoded row.
func unfilterRow(tag byte, cur, src, prev []byte, bpp int) error {
	for i, c := range src {
		var left, upLeft byte
		if i >= bpp {
			left = cur[i-bpp]
			upLeft = prev[i-bpp]
		}
		up := prev[i]

		switch tag {
		case 0:
		case 1:
			c += left
		case 2:
			c += up
		case 3:
			c += byte((int(left) + int(up)) / 2)
		case 4:
			c += paeth(left, up, upLeft)
		default:
			return fmt.Errorf("unknown PNG filter type %d", tag)
		}
		cur[i] = c
	}
	return nil
}

// paeth picks whichever of a (left), b (up) and c (up-left) is closest to
// a+b-c, preferring a then b on ties.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
