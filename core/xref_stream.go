package core

import "fmt"

// xrefStreamRecord is one decoded row of an xref stream.
type xrefStreamRecord struct {
	Type   int64 // 0 free, 1 in use, 2 compressed
	Field2 int64 // offset for type 1
	Field3 int64 // generation for type 1
}

// DecodeXRefStream reads the entries of a /Type /XRef stream into table.
// Rows are fixed width per /W, numbered by /Index (default [0 Size]).
// Only type 1 rows, objects stored directly in the file, are recorded.
// Decoding stops when either the data or the object numbers run out.
func DecodeXRefStream(stream *Stream, table *XRefTable) error {
	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) < 3 {
		return fmt.Errorf("xref stream: /W must be an array of 3 integers")
	}
	var widths [3]int
	for i := range widths {
		w, ok := wArr.GetInt(i)
		if !ok || w < 0 || w > 8 {
			return fmt.Errorf("xref stream: invalid /W entry %d: %v", i, wArr.Get(i))
		}
		widths[i] = int(w)
	}
	rowLen := widths[0] + widths[1] + widths[2]
	if rowLen == 0 {
		return fmt.Errorf("xref stream: /W widths are all zero")
	}

	ranges, err := xrefStreamRanges(stream.Dict)
	if err != nil {
		return err
	}

	data, err := stream.Decode()
	if err != nil {
		return fmt.Errorf("xref stream: %w", err)
	}

	pos := 0
rows:
	for _, r := range ranges {
		for num := r.start; num < r.start+r.count; num++ {
			if pos+rowLen > len(data) {
				break rows
			}
			rec := xrefStreamRecord{
				Type:   readBigEndianInt(data[pos:], widths[0]),
				Field2: readBigEndianInt(data[pos+widths[0]:], widths[1]),
				Field3: readBigEndianInt(data[pos+widths[0]+widths[1]:], widths[2]),
			}
			pos += rowLen

			// A zero-width type field reads as type 0, so those rows are
			// not recorded either.
			if rec.Type == 1 {
				table.Set(ObjectKey{Number: num, Generation: int(rec.Field3)}, rec.Field2)
			}
		}
	}
	return nil
}

// xrefRange is one (start, count) pair of /Index
type xrefRange struct {
	start, count int
}

// xrefStreamRanges reads /Index, defaulting to [0 Size].
func xrefStreamRanges(dict Dict) ([]xrefRange, error) {
	index, ok := dict.GetArray("Index")
	if !ok {
		size, ok := dict.GetInt("Size")
		if !ok {
			return nil, fmt.Errorf("xref stream: missing /Size")
		}
		index = Array{Int(0), size}
	}

	var ranges []xrefRange
	for i := 0; i+1 < len(index); i += 2 {
		start, ok1 := index.GetInt(i)
		count, ok2 := index.GetInt(i + 1)
		if !ok1 || !ok2 || start < 0 || count < 0 {
			return nil, fmt.Errorf("xref stream: invalid /Index pair at %d", i)
		}
		ranges = append(ranges, xrefRange{start: int(start), count: int(count)})
	}
	return ranges, nil
}

// readBigEndianInt reads width bytes from data as a big-endian unsigned
// integer. A width of 0 reads as 0.
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width && i < len(data); i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}
