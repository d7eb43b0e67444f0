package output

import (
	"image"
	"image/jpeg"
	"io"
)

// JPEGOptions controls JPEG output.
type JPEGOptions struct {
	Quality int // 1-100, 95 when unset
}

// WriteJPEG encodes img as JPEG. JPEG has no alpha; transparent pixels
// keep their color.
func WriteJPEG(w io.Writer, img image.Image, opts JPEGOptions) error {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 95
	}

	return jpeg.Encode(w, opaque(img), &jpeg.Options{Quality: quality})
}

// opaque drops the alpha channel of an NRGBA image.
func opaque(img image.Image) image.Image {
	src, ok := img.(*image.NRGBA)
	if !ok {
		return img
	}
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}
