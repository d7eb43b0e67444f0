package psp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Rect is an axis-aligned rectangle: top-left inclusive, bottom-right exclusive.
type Rect struct {
	TLX, TLY int
	BRX, BRY int
}

func (r Rect) Width() int {
	return r.BRX - r.TLX
}

func (r Rect) Height() int {
	return r.BRY - r.TLY
}

// Area is zero for degenerate rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether inner lies entirely inside r.
func (r Rect) Contains(inner Rect) bool {
	return inner.TLX >= r.TLX && inner.TLY >= r.TLY &&
		inner.BRX <= r.BRX && inner.BRY <= r.BRY
}

func (r Rect) String() string {
	return fmt.Sprintf("%d/%d - %d/%d", r.TLX, r.TLY, r.BRX, r.BRY)
}

// Intersection returns the overlap of a and b. The result may be empty;
// callers must check Empty before walking it.
func Intersection(a, b Rect) Rect {
	return Rect{
		TLX: max(a.TLX, b.TLX),
		TLY: max(a.TLY, b.TLY),
		BRX: min(a.BRX, b.BRX),
		BRY: min(a.BRY, b.BRY),
	}
}

// SubMask extracts the pixels of inner from outer, a row-major array laid
// out at outerRect's dimensions. When both rectangles have the same size the
// input is returned unchanged.
func SubMask[T any](outer []T, outerRect, inner Rect) ([]T, error) {
	outerW, outerH := outerRect.Width(), outerRect.Height()
	w, h := inner.Width(), inner.Height()

	if w == outerW && h == outerH {
		return outer, nil
	}
	if inner.Empty() {
		return []T{}, nil
	}
	if !outerRect.Contains(inner) {
		return nil, errors.Wrapf(ErrMaskGeometry, "rect %v not inside %v", inner, outerRect)
	}
	if len(outer) < outerW*outerH {
		return nil, errors.Wrapf(ErrMaskGeometry, "%d pixels for %dx%d rect", len(outer), outerW, outerH)
	}

	offX := inner.TLX - outerRect.TLX
	offY := inner.TLY - outerRect.TLY
	sub := make([]T, 0, w*h)
	for y := 0; y < h; y++ {
		row := (y+offY)*outerW + offX
		sub = append(sub, outer[row:row+w]...)
	}
	return sub, nil
}

// Expand paints bits, laid out at rect, onto a zero-filled canvas of
// width x height. Pixels falling outside the canvas are dropped.
func Expand(bits []uint8, rect Rect, width, height int) []uint8 {
	canvas := make([]uint8, width*height)
	rw := rect.Width()
	for y := 0; y < rect.Height(); y++ {
		cy := y + rect.TLY
		if cy < 0 || cy >= height {
			continue
		}
		for x := 0; x < rw; x++ {
			cx := x + rect.TLX
			src := y*rw + x
			if cx < 0 || cx >= width || src >= len(bits) {
				continue
			}
			canvas[cy*width+cx] = bits[src]
		}
	}
	return canvas
}
