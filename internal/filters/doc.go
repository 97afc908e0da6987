// Package filters removes the encodings named by a stream's /Filter entry.
//
// Use [Decode] with a filter's full or abbreviated name:
//
//	data, err := filters.Decode("FlateDecode", raw, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   5,
//	})
//
// Supported: FlateDecode, LZWDecode (both with TIFF and PNG predictors),
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode, CCITTFaxDecode and the
// Identity Crypt filter. DCTDecode and JPXDecode data is returned unchanged
// since it is already a complete image file. JBIG2Decode and non-identity
// Crypt filters return an error wrapping [ErrUnsupported].
package filters
