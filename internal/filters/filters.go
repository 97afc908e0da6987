package filters

import (
	"errors"
	"fmt"
)

// Decoder removes one layer of stream encoding.
type Decoder func(data []byte, params Params) ([]byte, error)

// ErrUnsupported is returned for filters that are recognised but cannot be
// decoded here.
var ErrUnsupported = errors.New("unsupported filter")

var decoders = map[string]Decoder{
	"FlateDecode":     FlateDecode,
	"LZWDecode":       LZWDecode,
	"ASCIIHexDecode":  ignoreParams(ASCIIHexDecode),
	"ASCII85Decode":   ignoreParams(ASCII85Decode),
	"RunLengthDecode": ignoreParams(RunLengthDecode),
	"CCITTFaxDecode":  CCITTFaxDecode,
	"Crypt":           cryptDecode,
}

// abbreviations are the short names allowed in inline images, which some
// writers also use in stream dictionaries.
var abbreviations = map[string]string{
	"Fl":  "FlateDecode",
	"LZW": "LZWDecode",
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// imageCodecs hold complete image files; their data is returned as is.
var imageCodecs = map[string]bool{
	"DCTDecode": true,
	"JPXDecode": true,
}

// Canonical returns the full name of a filter given its full or
// abbreviated name.
func Canonical(name string) string {
	if full, ok := abbreviations[name]; ok {
		return full
	}
	return name
}

// IsImageCodec reports whether name is a filter whose output is an encoded
// image rather than raw samples.
func IsImageCodec(name string) bool {
	return imageCodecs[Canonical(name)]
}

// Decode applies the named filter to data.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	name = Canonical(name)
	if imageCodecs[name] {
		return data, nil
	}
	if dec, ok := decoders[name]; ok {
		return dec(data, params)
	}
	if name == "JBIG2Decode" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return nil, fmt.Errorf("unknown filter: %s", name)
}

func ignoreParams(fn func([]byte) ([]byte, error)) Decoder {
	return func(data []byte, _ Params) ([]byte, error) {
		return fn(data)
	}
}

// cryptDecode handles the Crypt filter. Only the Identity crypt filter can
// be applied without the document's security handler.
func cryptDecode(data []byte, params Params) ([]byte, error) {
	if name := params.Name("Name", "Identity"); name != "Identity" {
		return nil, fmt.Errorf("%w: Crypt filter %s", ErrUnsupported, name)
	}
	return data, nil
}
