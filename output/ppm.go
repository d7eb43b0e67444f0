package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// WritePPM writes img as an ASCII P3 pixmap with 8-bit samples. Alpha
// is dropped.
func WritePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}

	return bw.Flush()
}
