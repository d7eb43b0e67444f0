package psp

import "strings"

// KludgeBounds is the size a layer's bitmap was actually stored at when
// its bottom-right coordinates overran the image.
type KludgeBounds struct {
	Width  int
	Height int
}

// RecoverCoordinates repairs the rectangle fields of a layer info chunk in
// place. Some writers store garbage or overrunning coordinates, typically
// on the Background layer:
//
//   - any rect field above ImplausibleCoordinate is reset to 0;
//   - any *_br_x above width is clamped to width, any *_br_y above height
//     to height;
//   - any *_tl_x / *_tl_y past its bottom-right counterpart is lowered to
//     it, so no rect has a negative width or height.
//
// Every change produces a Warning. When a bottom-right coordinate was
// clamped, the largest original value is returned so the bitmap, which was
// stored at that size, can be re-cropped. Otherwise the bounds are nil.
func RecoverCoordinates(info *Chunk, layer string, width, height int) ([]Warning, *KludgeBounds) {
	var warnings []Warning
	fix := func(field string, v, repl int) {
		info.Set(field, uint64(repl))
		warnings = append(warnings, Warning{Layer: layer, Field: field, Value: v, Replacement: repl})
	}

	names := info.Names()
	for _, name := range names {
		if !strings.Contains(name, "rect") {
			continue
		}
		if v := info.Int(name); v > ImplausibleCoordinate {
			fix(name, v, 0)
		}
	}

	kw, kh := width, height
	for _, name := range names {
		v := info.Int(name)
		switch {
		case strings.HasSuffix(name, "br_x") && v > width:
			fix(name, v, width)
			kw = max(kw, v)
		case strings.HasSuffix(name, "br_y") && v > height:
			fix(name, v, height)
			kh = max(kh, v)
		}
	}

	for _, name := range names {
		var br string
		switch {
		case strings.HasSuffix(name, "tl_x"):
			br = strings.TrimSuffix(name, "tl_x") + "br_x"
		case strings.HasSuffix(name, "tl_y"):
			br = strings.TrimSuffix(name, "tl_y") + "br_y"
		default:
			continue
		}
		if tl, b := info.Int(name), info.Int(br); tl > b {
			fix(name, tl, b)
		}
	}

	if kw == width && kh == height {
		return warnings, nil
	}
	return warnings, &KludgeBounds{Width: kw, Height: kh}
}
