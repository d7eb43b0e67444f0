package psp

import (
	"github.com/pkg/errors"
)

// resolveGroups pairs each Group layer declaring two members with the Raster
// and Mask layers that follow it. Nested groups and other member counts are
// left alone.
func (d *decoder) resolveGroups(bank *LayerBank) {
	layers := bank.Layers
	for x, g := range layers {
		if g.Type != LayerGroup {
			continue
		}
		if n := g.GroupCount(); n != 2 {
			Debug("group [%s] has %d members, not grouping", g.Name, n)
			continue
		}
		if x+2 >= len(layers) {
			d.log.Warn("group [%s] declares 2 members but only %d layers follow", g.Name, len(layers)-x-1)
			continue
		}

		raster, mask := layers[x+1], layers[x+2]
		if raster.Type != LayerRaster || mask.Type != LayerMask {
			d.log.Warn("group [%s] members are %s and %s, expected %s and %s",
				g.Name, raster.Type, mask.Type, LayerRaster, LayerMask)
			continue
		}

		g.Members = []int{x + 1, x + 2}
		raster.Sibling = x + 2
		mask.Sibling = x + 1
		Debug("group [%s]: [%s] masked by [%s]", g.Name, raster.Name, mask.Name)
	}
}

// generateLayerMask combines a Raster layer's rectangle mask with the mask
// of its grouped Mask layer into the omega mask. Both masks may cover
// different, partly overlapping areas, so only their intersection is kept.
// A layer with neither mask gets a nil omega mask: fully opaque over AbsRect.
func (l *Layer) generateLayerMask(bank *LayerBank) error {
	if l.Type != LayerRaster {
		return nil
	}

	if l.Sibling >= 0 {
		mask := bank.Layers[l.Sibling]
		l.LayerMask = mask.Gray
		l.LayerMaskRect = mask.AbsRect
	}

	switch {
	case l.LayerMask != nil && l.RectMask != nil:
		l.OmegaRect = Intersection(l.LayerMaskRect, l.AbsRect)
		if l.OmegaRect.Empty() {
			l.OmegaMask = []uint8{}
			return nil
		}
		scaled, err := SubMask(l.LayerMask, l.LayerMaskRect, l.OmegaRect)
		if err != nil {
			return errors.Wrap(err, "layer mask")
		}
		rect, err := SubMask(l.RectMask, l.AbsRect, l.OmegaRect)
		if err != nil {
			return errors.Wrap(err, "rectangle mask")
		}
		if len(scaled) < l.OmegaRect.Area() || len(rect) < l.OmegaRect.Area() {
			return errors.Wrapf(ErrMaskGeometry, "masks of %d and %d pixels for %v",
				len(scaled), len(rect), l.OmegaRect)
		}
		l.LayerScaled = scaled
		l.OmegaMask = make([]uint8, l.OmegaRect.Area())
		for i := range l.OmegaMask {
			l.OmegaMask[i] = Blend(0, scaled[i], rect[i])
		}

	case l.RectMask != nil:
		l.OmegaMask = l.RectMask
		l.OmegaRect = l.AbsRect

	case l.LayerMask != nil:
		l.OmegaRect = Intersection(l.LayerMaskRect, l.AbsRect)
		if l.OmegaRect.Empty() {
			l.OmegaMask = []uint8{}
			return nil
		}
		scaled, err := SubMask(l.LayerMask, l.LayerMaskRect, l.OmegaRect)
		if err != nil {
			return errors.Wrap(err, "layer mask")
		}
		l.LayerScaled = scaled
		l.OmegaMask = scaled

	default:
		l.OmegaMask = nil
		l.OmegaRect = l.AbsRect
	}
	return nil
}
