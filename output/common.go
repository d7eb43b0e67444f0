package output

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/weaming/psp-go/psp"
)

type Config struct {
	Input        string
	InputDir     string
	OutputDir    string
	Format       string
	Mask         int // layer used as alpha plane, -1 for the first alpha channel
	NonRecursive bool
	Expand       bool
	List         bool
	Verbose      bool
	SkipHidden   bool
	Quality      int // JPEG only
}

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatPPM  Format = "ppm"
	FormatJPEG Format = "jpg"
)

// Formats lists the accepted -f values.
var Formats = []Format{FormatPNG, FormatBMP, FormatTIFF, FormatPPM, FormatJPEG}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "ppm":
		return FormatPPM, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", name)
}

// Ext returns the file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// HasAlpha reports whether the encoding keeps an alpha channel.
func (f Format) HasAlpha() bool {
	return f == FormatPNG || f == FormatTIFF
}

// Composite builds the flattened image. A non-nil alpha plane, one value
// per pixel, becomes the alpha channel; otherwise the image is opaque.
func Composite(bitmap []psp.RGB, alpha []uint8, width, height int) (*image.NRGBA, error) {
	if len(bitmap) != width*height {
		return nil, fmt.Errorf("bitmap has %d pixels, expected %dx%d", len(bitmap), width, height)
	}
	if alpha != nil && len(alpha) != len(bitmap) {
		return nil, fmt.Errorf("alpha plane has %d values, expected %d", len(alpha), len(bitmap))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range bitmap {
		a := uint8(255)
		if alpha != nil {
			a = alpha[i]
		}
		img.SetNRGBA(i%width, i/width, color.NRGBA{R: p.R, G: p.G, B: p.B, A: a})
	}
	return img, nil
}

// RGBImage wraps pixels laid out at r, positioned at r.
func RGBImage(px []psp.RGB, r psp.Rect) *image.NRGBA {
	img := image.NewNRGBA(bounds(r))
	w := r.Width()
	for i, p := range px {
		if w == 0 || i >= r.Area() {
			break
		}
		img.SetNRGBA(r.TLX+i%w, r.TLY+i/w, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return img
}

// GrayImage wraps a greyscale plane laid out at r, positioned at r.
func GrayImage(bits []uint8, r psp.Rect) *image.Gray {
	img := image.NewGray(bounds(r))
	copy(img.Pix, bits)
	return img
}

func bounds(r psp.Rect) image.Rectangle {
	if r.Empty() {
		return image.Rect(r.TLX, r.TLY, r.TLX, r.TLY)
	}
	return image.Rect(r.TLX, r.TLY, r.BRX, r.BRY)
}
