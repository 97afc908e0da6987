package filters

import "fmt"

// RunLengthDecode expands run-length encoded data. A length byte n in
// 0..127 is followed by n+1 literal bytes; 129..255 is followed by one byte
// repeated 257-n times; 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	i := 0
	for i < len(data) {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			end := i + n + 1
			if end > len(data) {
				return out, fmt.Errorf("run-length literal of %d bytes truncated at %d", n+1, len(data)-i)
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return out, fmt.Errorf("run-length repeat missing its byte")
			}
			for k := 0; k < 257-n; k++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
