package output

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/weaming/psp-go/psp"
)

// Debug dumps of layers and intermediate masks, written as BMP files.

var channelNames = map[psp.ChannelType]string{
	psp.ChannelComposite: "rect_mask",
	psp.ChannelRed:       "red",
	psp.ChannelGreen:     "green",
	psp.ChannelBlue:      "blue",
}

// ExpandLayers writes every Raster and Mask layer, pasted onto a black
// full-size canvas, as <layer>.bmp in dir.
func ExpandLayers(doc *psp.Document, dir string) ([]string, error) {
	var written []string
	canvas := image.Rect(0, 0, doc.Width(), doc.Height())

	for _, l := range doc.Layers() {
		var img draw.Image
		switch l.Type {
		case psp.LayerRaster:
			img = pasteRGB(canvas, l.RGB, l.AbsRect)
		case psp.LayerMask:
			img = pasteGray(canvas, l.Gray, l.AbsRect)
		default:
			continue
		}
		path, err := saveBMP(dir, layerFileName(l), img)
		if err != nil {
			return written, err
		}
		if path != "" {
			written = append(written, path)
		}
	}
	return written, nil
}

// ExpandBlocks writes the intermediate bitmaps of each layer (raw bitmap,
// rectangle mask, grouped layer mask, omega mask, merged layer and each
// channel) and of each alpha channel into dir.
func ExpandBlocks(doc *psp.Document, dir string) ([]string, error) {
	d := &dumper{dir: dir, canvas: image.Rect(0, 0, doc.Width(), doc.Height())}

	for _, l := range doc.Layers() {
		if l.Type != psp.LayerRaster {
			continue
		}
		d.layer(l)
	}
	if ab := doc.AlphaBank(); ab != nil {
		for _, a := range ab.Channels {
			if a.Channel == nil {
				continue
			}
			d.save("Alpha--"+safeName(a.Name, "alpha"), pasteGray(d.canvas, a.Channel.Data, a.SavedRect))
		}
	}
	return d.written, d.err
}

type dumper struct {
	dir     string
	canvas  image.Rectangle
	written []string
	err     error
}

func (d *dumper) save(name string, img image.Image) {
	if d.err != nil {
		return
	}
	path, err := saveBMP(d.dir, name, img)
	if err != nil {
		d.err = err
		return
	}
	if path != "" {
		d.written = append(d.written, path)
	}
}

func (d *dumper) layer(l *psp.Layer) {
	base := layerFileName(l)

	d.save(base+"--bitmap_raw", atOrigin(RGBImage(l.RGB, l.AbsRect)))

	if l.RectMask != nil {
		d.save(base+"--expanded_rect_mask", pasteGray(d.canvas, l.RectMask, l.AbsRect))
	}

	if l.LayerMask != nil {
		d.save(base+"-group_layer_mask", pasteGray(d.canvas, l.LayerMask, l.LayerMaskRect))
		d.save(base+"-group_layer_rect", atOrigin(GrayImage(l.LayerMask, l.LayerMaskRect)))
		if l.LayerScaled != nil {
			d.save(base+"-layer_scaled", atOrigin(GrayImage(l.LayerScaled, l.OmegaRect)))
		}
		if l.OmegaMask != nil {
			d.save(base+"-layer_final", atOrigin(GrayImage(l.OmegaMask, l.OmegaRect)))
		}
	}

	merged := pasteRGB(d.canvas, l.RGB, l.AbsRect)
	d.save(base+"--merge_layer", merged)
	if l.OmegaMask != nil {
		d.save(base+"--merge_layer-trans", checkerMerge(d.canvas, merged, pasteGray(d.canvas, l.OmegaMask, l.OmegaRect)))
	}

	size := psp.Rect{BRX: l.AbsRect.Width(), BRY: l.AbsRect.Height()}
	for _, ch := range l.Channels {
		kind, ok := channelNames[ch.ChannelType]
		if !ok {
			kind = ch.ChannelType.String()
		}
		d.save(fmt.Sprintf("%s--chan_%d--%s", base, ch.Number, kind), GrayImage(ch.Data, size))
	}
}

// checkerMerge draws layer through mask over a 16px grey checkerboard, so
// transparent areas are visible as such.
func checkerMerge(canvas image.Rectangle, layer image.Image, mask *image.Gray) *image.RGBA {
	board := image.NewRGBA(canvas)
	for y := canvas.Min.Y; y < canvas.Max.Y; y++ {
		for x := canvas.Min.X; x < canvas.Max.X; x++ {
			v := uint8(255)
			if (x/16)%2 == (y/16)%2 {
				v = 192
			}
			board.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	draw.DrawMask(board, canvas, layer, canvas.Min, mask, canvas.Min, draw.Over)
	return board
}

func pasteRGB(canvas image.Rectangle, px []psp.RGB, r psp.Rect) *image.RGBA {
	dst := image.NewRGBA(canvas)
	draw.Draw(dst, canvas, image.Black, image.Point{}, draw.Src)
	src := RGBImage(px, r)
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func pasteGray(canvas image.Rectangle, bits []uint8, r psp.Rect) *image.Gray {
	dst := image.NewGray(canvas)
	src := GrayImage(bits, r)
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// atOrigin copies img so its bounds start at (0, 0).
func atOrigin(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		return img
	}
	var dst draw.Image
	switch img.(type) {
	case *image.Gray:
		dst = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	default:
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// saveBMP writes dir/name.bmp. Empty images are skipped and yield no path.
func saveBMP(dir, name string, img image.Image) (string, error) {
	path := filepath.Join(dir, name+".bmp")
	if img.Bounds().Empty() {
		psp.Debug("skipping empty image %s", path)
		return "", nil
	}
	if err := SaveImage(path, img, FormatBMP, 0); err != nil {
		return "", err
	}
	return path, nil
}

func layerFileName(l *psp.Layer) string {
	return safeName(l.Name, fmt.Sprintf("layer%d", l.Index))
}

// safeName turns a layer name into a file name.
func safeName(name, fallback string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
