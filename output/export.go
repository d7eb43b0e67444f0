package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/weaming/psp-go/psp"
)

// Encode writes img in format f. Formats without alpha get an opaque copy.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, opaque(img))
	case FormatTIFF:
		return WriteTIFF(w, img)
	case FormatPPM:
		return WritePPM(w, img)
	case FormatJPEG:
		return WriteJPEG(w, img, JPEGOptions{Quality: quality})
	}
	return fmt.Errorf("unsupported output format: %s", f)
}

// Render builds the image to export from a decoded document. Formats with
// alpha carry the alpha plane chosen by mask (see psp.Document.AlphaPlane).
func Render(doc *psp.Document, f Format, mask int) (*image.NRGBA, error) {
	bitmap := doc.Flattened()
	if bitmap == nil {
		return nil, fmt.Errorf("no raster layer to export")
	}

	var alpha []uint8
	if f.HasAlpha() {
		var err error
		if alpha, err = doc.AlphaPlane(mask); err != nil {
			return nil, err
		}
	}
	return Composite(bitmap, alpha, doc.Width(), doc.Height())
}

// Export renders doc and writes it to filename.
func Export(doc *psp.Document, filename string, f Format, mask, quality int) error {
	img, err := Render(doc, f, mask)
	if err != nil {
		return err
	}
	return SaveImage(filename, img, f, quality)
}

// SaveImage encodes img into a new file.
func SaveImage(filename string, img image.Image, f Format, quality int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Encode(file, img, f, quality); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	return file.Close()
}
