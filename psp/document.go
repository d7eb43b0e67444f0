package psp

import (
	"github.com/pkg/errors"
)

// Block returns the first top-level block with the given id, or nil.
func (doc *Document) Block(id BlockID) Block {
	for _, b := range doc.Blocks {
		if b.Header().ID == id {
			return b
		}
	}
	return nil
}

// LayerBank returns the layer bank, or nil if the file has none.
func (doc *Document) LayerBank() *LayerBank {
	lb, _ := doc.Block(BlockLayerBank).(*LayerBank)
	return lb
}

// AlphaBank returns the alpha bank, or nil if the file has none.
func (doc *Document) AlphaBank() *AlphaBank {
	ab, _ := doc.Block(BlockAlphaBank).(*AlphaBank)
	return ab
}

// Layers returns the supported layers in file order (bottom first).
func (doc *Document) Layers() []*Layer {
	if lb := doc.LayerBank(); lb != nil {
		return lb.Layers
	}
	return nil
}

func (doc *Document) Width() int {
	if doc.Attributes == nil {
		return 0
	}
	return doc.Attributes.Width
}

func (doc *Document) Height() int {
	if doc.Attributes == nil {
		return 0
	}
	return doc.Attributes.Height
}

// Flattened returns the composited Width x Height bitmap, or nil when the
// file has no raster layer.
func (doc *Document) Flattened() []RGB {
	if lb := doc.LayerBank(); lb != nil {
		return lb.Bitmap
	}
	return nil
}

// AlphaPlane returns a full-canvas transparency plane for the flattened
// bitmap. With layer >= 0 that layer is used as the mask; otherwise the
// first alpha channel of the alpha bank is. A nil plane with a nil error
// means there is no transparency source.
func (doc *Document) AlphaPlane(layer int) ([]uint8, error) {
	w, h := doc.Width(), doc.Height()

	if layer >= 0 {
		layers := doc.Layers()
		if layer >= len(layers) {
			return nil, errors.Wrapf(ErrNotMaskable, "layer [%d] greater than max layer [%d]", layer, len(layers)-1)
		}
		l := layers[layer]
		mask, err := l.AsMask()
		if err != nil {
			return nil, err
		}
		return Expand(mask, l.AbsRect, w, h), nil
	}

	ab := doc.AlphaBank()
	if ab == nil || len(ab.Channels) == 0 {
		return nil, nil
	}
	first := ab.Channels[0]
	if first.Channel == nil {
		return nil, nil
	}
	return Expand(first.Channel.Data, first.SavedRect, w, h), nil
}

// AsMask converts the layer into a greyscale mask at AbsRect. Mask layers
// are returned as is; Raster layers become on/off: 0 where the pixel is
// black, 255 elsewhere.
func (l *Layer) AsMask() ([]uint8, error) {
	switch l.Type {
	case LayerMask:
		return l.Gray, nil
	case LayerRaster:
		mask := make([]uint8, len(l.RGB))
		for i, p := range l.RGB {
			if max(p.R, p.G, p.B) != 0 {
				mask[i] = 255
			}
		}
		return mask, nil
	}
	return nil, errors.Wrapf(ErrNotMaskable, "layer [%s] is of type %s", l.Name, l.Type)
}
