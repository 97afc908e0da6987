package reader

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/tsawler/cosparse/core"
)

const pdfWithImages = `%PDF-1.4
1 0 obj << /Type /XObject /Subtype /Image /Width 2 /Height 2 /ColorSpace /DeviceGray
  /BitsPerComponent 8 /Filter /ASCIIHexDecode /Length 9 >>
stream
0080C0FF>
endstream
endobj
2 0 obj << /Type /XObject /Subtype /Form /Length 0 >>
stream
endstream
endobj
3 0 obj << /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace [/ICCBased 4 0 R]
  /BitsPerComponent 8 /Filter /ASCIIHexDecode /Length 7 >>
stream
FF0000>
endstream
endobj
4 0 obj << /N 3 /Length 0 >>
stream
endstream
endobj
5 0 obj << /Subtype /Image /Width 0 /Height 1 /Length 0 >>
stream
endstream
endobj
`

func decodePNG(t *testing.T, data []byte) (w, h int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestImages(t *testing.T) {
	reader := newTestReader(t, pdfWithImages)

	images := reader.Images()
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}

	gray := images[0]
	if gray.Key != (core.ObjectKey{Number: 1}) {
		t.Errorf("expected object 1, got %s", gray.Key)
	}
	if !bytes.Equal(gray.Data, []byte{0x00, 0x80, 0xC0, 0xFF}) {
		t.Errorf("unexpected samples %x", gray.Data)
	}
	if gray.Filter != "ASCIIHexDecode" {
		t.Errorf("expected ASCIIHexDecode, got %q", gray.Filter)
	}

	rgb := images[1]
	if rgb.ColorSpace != "DeviceRGB" {
		t.Errorf("expected ICCBased N=3 to map to DeviceRGB, got %q", rgb.ColorSpace)
	}
	pngData, err := rgb.ToPNG()
	if err != nil {
		t.Fatalf("ToPNG failed: %v", err)
	}
	if w, h := decodePNG(t, pngData); w != 1 || h != 1 {
		t.Errorf("expected 1x1, got %dx%d", w, h)
	}
}

func TestImage_NotImage(t *testing.T) {
	reader := newTestReader(t, pdfWithImages)

	if _, err := reader.Image(core.ObjectKey{Number: 2}); err != errNotImage {
		t.Errorf("expected errNotImage for a form, got %v", err)
	}
	if _, err := reader.Image(core.ObjectKey{Number: 5}); err == nil || err == errNotImage {
		t.Errorf("expected size error, got %v", err)
	}
	if _, err := reader.Image(core.ObjectKey{Number: 42}); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestImage_ToPNG(t *testing.T) {
	tests := []struct {
		name string
		img  Image
	}{
		{"gray 8 bit", Image{Width: 2, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 8, Data: []byte{0, 128, 64, 255}}},
		{"bilevel", Image{Width: 8, Height: 1, ColorSpace: "DeviceGray", BitsPerComponent: 1, Data: []byte{0xAA}}},
		{"gray 2 bit", Image{Width: 3, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 2, Data: []byte{0x1B, 0xE4}}},
		{"gray 4 bit", Image{Width: 3, Height: 1, ColorSpace: "CalGray", BitsPerComponent: 4, Data: []byte{0x0F, 0x80}}},
		{"rgb", Image{Width: 2, Height: 1, ColorSpace: "DeviceRGB", BitsPerComponent: 8, Data: []byte{255, 0, 0, 0, 255, 0}}},
		{"cmyk", Image{Width: 1, Height: 1, ColorSpace: "DeviceCMYK", BitsPerComponent: 8, Data: []byte{0, 255, 255, 0}}},
		{"indexed as gray", Image{Width: 1, Height: 1, ColorSpace: "Indexed", BitsPerComponent: 8, Data: []byte{3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.img.ToPNG()
			if err != nil {
				t.Fatalf("ToPNG failed: %v", err)
			}
			if w, h := decodePNG(t, data); w != tt.img.Width || h != tt.img.Height {
				t.Errorf("expected %dx%d, got %dx%d", tt.img.Width, tt.img.Height, w, h)
			}
		})
	}
}

func TestImage_ToPNGErrors(t *testing.T) {
	tests := []struct {
		name string
		img  Image
	}{
		{"insufficient gray", Image{Width: 4, Height: 4, ColorSpace: "DeviceGray", BitsPerComponent: 8, Data: []byte{1, 2}}},
		{"insufficient rgb", Image{Width: 2, Height: 2, ColorSpace: "DeviceRGB", BitsPerComponent: 8, Data: []byte{1, 2, 3}}},
		{"insufficient cmyk", Image{Width: 1, Height: 1, ColorSpace: "DeviceCMYK", BitsPerComponent: 8, Data: []byte{1}}},
		{"unsupported bpc", Image{Width: 1, Height: 1, ColorSpace: "DeviceGray", BitsPerComponent: 16, Data: []byte{1, 2}}},
		{"rgb 4 bit", Image{Width: 1, Height: 1, ColorSpace: "DeviceRGB", BitsPerComponent: 4, Data: []byte{1, 2}}},
		{"jpeg", Image{Width: 1, Height: 1, ColorSpace: "DeviceRGB", BitsPerComponent: 8, Filter: "DCTDecode", Data: []byte{0xFF, 0xD8, 0xFF}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.img.ToPNG(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImage_toGrayLevels(t *testing.T) {
	tests := []struct {
		name string
		img  Image
		want []uint8
	}{
		{"1 bit msb first", Image{Width: 8, Height: 1, BitsPerComponent: 1, Data: []byte{0xA0}}, []uint8{255, 0, 255, 0, 0, 0, 0, 0}},
		// 00 01 10 | 11 10 01, each row padded to a byte
		{"2 bit", Image{Width: 3, Height: 2, BitsPerComponent: 2, Data: []byte{0x18, 0xE4}}, []uint8{0, 85, 170, 255, 170, 85}},
		{"4 bit", Image{Width: 3, Height: 1, BitsPerComponent: 4, Data: []byte{0x0F, 0x80}}, []uint8{0, 255, 136}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray, err := tt.img.toGray()
			if err != nil {
				t.Fatalf("toGray failed: %v", err)
			}
			for i, want := range tt.want {
				x, y := i%tt.img.Width, i/tt.img.Width
				if got := gray.GrayAt(x, y).Y; got != want {
					t.Errorf("pixel (%d,%d): got %d, want %d", x, y, got, want)
				}
			}
		})
	}
}
