package reader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/tsawler/cosparse/core"
	"github.com/tsawler/cosparse/internal/filters"
)

// Image is an image XObject decoded from a stream.
type Image struct {
	Key              core.ObjectKey
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, etc.
	BitsPerComponent int
	Filter           string // Last filter in the chain, full name
	Data             []byte // Decoded samples
}

// Images returns every image XObject in the document. Images that fail to
// decode are skipped and logged.
func (r *Reader) Images() []Image {
	var images []Image
	for _, key := range r.Objects() {
		img, err := r.Image(key)
		if err == errNotImage {
			continue
		}
		if err != nil {
			r.log.Debugf("image %s: %s", key, err)
			continue
		}
		images = append(images, *img)
	}
	return images
}

var errNotImage = errors.New("not an image XObject")

// Image decodes the image XObject stored under key.
func (r *Reader) Image(key core.ObjectKey) (*Image, error) {
	obj, err := r.Lookup(key)
	if err != nil {
		return nil, err
	}
	stream, ok := core.Resolve(obj).(*core.Stream)
	if !ok {
		return nil, errNotImage
	}
	if subtype, _ := stream.Dict.GetName("Subtype"); subtype != "Image" {
		return nil, errNotImage
	}
	return newImage(key, stream)
}

func newImage(key core.ObjectKey, stream *core.Stream) (*Image, error) {
	dict := stream.Dict

	width, ok1 := dict.GetInt("Width")
	height, ok2 := dict.GetInt("Height")
	if !ok1 || !ok2 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image missing Width or Height")
	}

	img := &Image{
		Key:              key,
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       colorSpaceName(dict.Get("ColorSpace")),
		BitsPerComponent: 8,
	}
	if bpc, ok := dict.GetInt("BitsPerComponent"); ok {
		img.BitsPerComponent = int(bpc)
	} else if mask, _ := dict.GetBool("ImageMask"); mask {
		img.BitsPerComponent = 1
	}

	chain, err := stream.Filters()
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		img.Filter = chain[len(chain)-1].Name
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image stream: %w", err)
	}
	img.Data = data
	return img, nil
}

// colorSpaceName reduces a color space object to the family name that
// decides the sample layout.
func colorSpaceName(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		name, ok := v.GetName(0)
		if !ok {
			break
		}
		// Indexed samples are palette indices and come out as gray.
		if name == "ICCBased" {
			if profile, ok := v.Get(1).(*core.Stream); ok {
				switch n, _ := profile.Dict.GetInt("N"); n {
				case 3:
					return "DeviceRGB"
				case 4:
					return "DeviceCMYK"
				}
			}
			return "DeviceGray"
		}
		return string(name)
	}
	return "DeviceGray"
}

// ToPNG encodes the decoded samples as PNG. DCT and JPX data are already
// in an image format and are not supported.
func (img *Image) ToPNG() ([]byte, error) {
	if filters.IsImageCodec(img.Filter) {
		return nil, fmt.Errorf("%s data is not raw samples", img.Filter)
	}

	var goImg image.Image
	var err error
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = img.toRGBA(3)
	case "DeviceCMYK":
		goImg, err = img.toRGBA(4)
	default:
		goImg, err = img.toGray()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toGray expands 1, 2, 4 or 8 bit gray samples to 8 bits. Rows start on
// a byte boundary.
func (img *Image) toGray() (*image.Gray, error) {
	bpc := img.BitsPerComponent
	switch bpc {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", bpc)
	}

	bytesPerRow := (img.Width*bpc + 7) / 8
	if need := bytesPerRow * img.Height; len(img.Data) < need {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), need)
	}

	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	maxVal := 1<<bpc - 1
	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			bit := x * bpc
			shift := 8 - bpc - bit%8 // MSB first
			v := int(row[bit/8]>>shift) & maxVal
			goImg.Pix[y*goImg.Stride+x] = uint8(v * 255 / maxVal)
		}
	}
	return goImg, nil
}

// toRGBA converts 8-bit RGB (3 components) or CMYK (4) samples.
func (img *Image) toRGBA(components int) (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for %s: %d", img.ColorSpace, img.BitsPerComponent)
	}
	if need := img.Width * img.Height * components; len(img.Data) < need {
		return nil, fmt.Errorf("insufficient data for %s image: got %d, expected %d", img.ColorSpace, len(img.Data), need)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		src := img.Data[i*components:]
		var c color.RGBA
		if components == 4 {
			c.R, c.G, c.B = color.CMYKToRGB(src[0], src[1], src[2], src[3])
		} else {
			c.R, c.G, c.B = src[0], src[1], src[2]
		}
		c.A = 255
		goImg.SetRGBA(i%img.Width, i/img.Width, c)
	}
	return goImg, nil
}
