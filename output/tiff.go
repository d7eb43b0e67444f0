package output

import (
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// WriteTIFF encodes img as a deflate-compressed TIFF, alpha included.
func WriteTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}
