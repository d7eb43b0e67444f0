package psp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Blend alpha-composites source s over destination d with alpha a:
// 0 leaves d, 255 gives s, anything in between is s·p + d·(1-p) with
// p = a/255, computed in float64 and truncated toward zero.
func Blend(d, s, a uint8) uint8 {
	switch a {
	case 0:
		return d
	case 255:
		return s
	}
	p := float64(a) / 255
	// the explicit conversions keep the products rounded separately (no FMA)
	v := float64(float64(s)*p) + float64(float64(d)*(1-p))
	return uint8(int(v))
}

// BlendRGB applies Blend to each color of a pixel.
func BlendRGB(d, s RGB, a uint8) RGB {
	switch a {
	case 0:
		return d
	case 255:
		return s
	}
	return RGB{
		R: Blend(d.R, s.R, a),
		G: Blend(d.G, s.G, a),
		B: Blend(d.B, s.B, a),
	}
}

// Flatten composites the Raster layers of an arena bottom to top onto a
// width x height canvas. The canvas starts as a copy of the bottommost
// Raster layer, which must cover the whole image. Mask and Group layers
// never draw directly. Returns nil when there is no Raster layer.
func Flatten(layers []*Layer, width, height int, skipHidden bool) ([]RGB, error) {
	drawn := func(l *Layer) bool {
		return l.Type == LayerRaster && (!skipHidden || l.Visible())
	}

	base := -1
	for i, l := range layers {
		if drawn(l) {
			base = i
			break
		}
	}
	if base < 0 {
		return nil, nil
	}

	bottom := layers[base]
	if len(bottom.RGB) != width*height {
		return nil, errors.Wrapf(ErrMaskGeometry, "bottom layer [%s] has %d pixels, image is %dx%d",
			bottom.Name, len(bottom.RGB), width, height)
	}
	canvas := make([]RGB, len(bottom.RGB))
	copy(canvas, bottom.RGB)

	for _, l := range layers[base+1:] {
		if !drawn(l) {
			continue
		}
		if err := blendLayer(canvas, width, height, l); err != nil {
			return nil, errors.Wrapf(err, "layer [%s]", l.Name)
		}
	}
	return canvas, nil
}

// blendLayer draws l over the canvas inside its omega rectangle. Layer
// pixels are addressed relative to AbsRect, mask values relative to
// OmegaRect. A nil omega mask is fully opaque.
func blendLayer(canvas []RGB, width, height int, l *Layer) error {
	r, abs := l.OmegaRect, l.AbsRect
	if r.Empty() {
		return nil
	}
	if !abs.Contains(r) {
		return errors.Wrapf(ErrMaskGeometry, "omega rect %v outside layer rect %v", r, abs)
	}
	if len(l.RGB) < abs.Area() {
		return errors.Wrapf(ErrMaskGeometry, "%d pixels for layer rect %v", len(l.RGB), abs)
	}
	if l.OmegaMask != nil && len(l.OmegaMask) < r.Area() {
		return errors.Wrapf(ErrMaskGeometry, "%d mask values for omega rect %v", len(l.OmegaMask), r)
	}

	rw, lw := r.Width(), abs.Width()
	for y := 0; y < r.Height(); y++ {
		cy := r.TLY + y
		if cy < 0 || cy >= height {
			continue
		}
		for x := 0; x < rw; x++ {
			cx := r.TLX + x
			if cx < 0 || cx >= width {
				continue
			}
			a := uint8(255)
			if l.OmegaMask != nil {
				a = l.OmegaMask[y*rw+x]
			}
			dst := cy*width + cx
			src := (cy-abs.TLY)*lw + (cx - abs.TLX)
			canvas[dst] = BlendRGB(canvas[dst], l.RGB[src], a)
		}
	}
	return nil
}

func (d *decoder) combineLayers(bank *LayerBank) error {
	d.log.Step("flatten", fmt.Sprintf("%d layers", len(bank.Layers)))
	bitmap, err := Flatten(bank.Layers, d.attrs.Width, d.attrs.Height, d.opts.SkipHidden)
	if err != nil {
		d.log.Done("failed")
		return errors.Wrap(err, "flatten layers")
	}
	bank.Bitmap = bitmap
	d.log.Done(fmt.Sprintf("%dx%d", d.attrs.Width, d.attrs.Height))
	return nil
}
