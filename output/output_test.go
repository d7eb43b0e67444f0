package output

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/weaming/psp-go/psp"
)

// testDocument is a 4x2 image: a red background, a grouped raster with a
// rectangle mask, its mask layer, and one alpha channel.
func testDocument() *psp.Document {
	const w, h = 4, 2
	full := psp.Rect{BRX: w, BRY: h}
	red := psp.RGB{R: 255}

	bg := &psp.Layer{Name: "Background", Type: psp.LayerRaster, AbsRect: full, OmegaRect: full, Sibling: -1}
	for i := 0; i < w*h; i++ {
		bg.RGB = append(bg.RGB, red)
	}
	bg.Channels = []*psp.Channel{
		{Number: 0, ChannelType: psp.ChannelRed, Data: bytes.Repeat([]byte{255}, w*h)},
	}

	top := &psp.Layer{
		Name: "Top/1", Type: psp.LayerRaster, Index: 1,
		AbsRect:       psp.Rect{TLX: 2, BRX: 4, BRY: 2},
		RGB:           []psp.RGB{{B: 255}, {B: 255}, {B: 255}, {B: 255}},
		RectMask:      []uint8{255, 0, 255, 0},
		LayerMask:     []uint8{255, 255, 255, 255},
		LayerMaskRect: psp.Rect{TLX: 2, BRX: 4, BRY: 2},
		LayerScaled:   []uint8{255, 255, 255, 255},
		OmegaMask:     []uint8{255, 0, 255, 0},
		OmegaRect:     psp.Rect{TLX: 2, BRX: 4, BRY: 2},
		Sibling:       2,
	}
	mask := &psp.Layer{
		Name: "Mask", Type: psp.LayerMask, Index: 2,
		AbsRect: psp.Rect{TLX: 2, BRX: 4, BRY: 2},
		Gray:    []uint8{255, 255, 255, 255},
		Sibling: 1,
	}

	flat := append([]psp.RGB(nil), bg.RGB...)
	flat[2], flat[6] = psp.RGB{B: 255}, psp.RGB{B: 255}

	alpha := &psp.AlphaBank{
		BlockHeader: psp.BlockHeader{ID: psp.BlockAlphaBank},
		Channels: []*psp.AlphaChannel{{
			Name:      "Selection",
			SavedRect: psp.Rect{BRX: 2, BRY: 2},
			Channel:   &psp.Channel{Data: []uint8{10, 20, 30, 40}},
		}},
	}

	return &psp.Document{
		Attributes: &psp.ImageAttributes{Width: w, Height: h},
		Blocks: []psp.Block{
			&psp.LayerBank{
				BlockHeader: psp.BlockHeader{ID: psp.BlockLayerBank},
				Layers:      []*psp.Layer{bg, top, mask},
				Bitmap:      flat,
			},
			alpha,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png": FormatPNG, "PNG": FormatPNG, ".bmp": FormatBMP,
		"tif": FormatTIFF, "tiff": FormatTIFF, "ppm": FormatPPM,
		"jpg": FormatJPEG, "jpeg": FormatJPEG,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
	if FormatJPEG.Ext() != ".jpg" {
		t.Errorf("Ext() = %q", FormatJPEG.Ext())
	}
}

func TestComposite(t *testing.T) {
	px := []psp.RGB{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	img, err := Composite(px, []uint8{0, 128}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{4, 5, 6, 128}) {
		t.Errorf("pixel = %v", got)
	}

	img, err = Composite(px, nil, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("image without alpha plane should be opaque")
	}

	if _, err := Composite(px, nil, 3, 1); err == nil {
		t.Error("size mismatch should fail")
	}
	if _, err := Composite(px, []uint8{1}, 2, 1); err == nil {
		t.Error("alpha size mismatch should fail")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src, err := Composite([]psp.RGB{{R: 200, G: 10, B: 10}, {R: 10, G: 200, B: 10}, {R: 10, G: 10, B: 200}, {R: 90, G: 90, B: 90}}, []uint8{255, 255, 128, 0}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		FormatJPEG: func(r *bytes.Reader) (image.Image, error) { return jpeg.Decode(r) },
	}
	for f, decode := range decoders {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f, 90); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v", got.Bounds())
			}
			if f == FormatJPEG {
				return
			}
			c := color.NRGBAModel.Convert(got.At(0, 0)).(color.NRGBA)
			if c.R != 200 || c.G != 10 || c.B != 10 {
				t.Errorf("pixel (0,0) = %v", c)
			}
			a := color.NRGBAModel.Convert(got.At(0, 1)).(color.NRGBA).A
			if f.HasAlpha() && a != 128 {
				t.Errorf("alpha = %d, want 128", a)
			}
			if !f.HasAlpha() && a != 255 {
				t.Errorf("alpha = %d, want opaque", a)
			}
		})
	}
}

func TestWritePPM(t *testing.T) {
	img, _ := Composite([]psp.RGB{{R: 1, G: 2, B: 3}, {R: 255, G: 0, B: 7}}, nil, 2, 1)
	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatal(err)
	}
	want := "P3\n2 1\n255\n1 2 3\n255 0 7\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderAlphaPlane(t *testing.T) {
	doc := testDocument()

	img, err := Render(doc, FormatPNG, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(1, 1).A; got != 40 {
		t.Errorf("alpha channel value = %d, want 40", got)
	}
	if got := img.NRGBAAt(3, 0).A; got != 0 {
		t.Errorf("outside the alpha rect = %d, want 0", got)
	}

	img, err = Render(doc, FormatPNG, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.NRGBAAt(0, 0).A != 0 || img.NRGBAAt(2, 0).A != 255 {
		t.Errorf("mask layer alpha = %d/%d", img.NRGBAAt(0, 0).A, img.NRGBAAt(2, 0).A)
	}

	img, err = Render(doc, FormatBMP, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("bmp render should be opaque")
	}

	if _, err := Render(doc, FormatPNG, 9); err == nil {
		t.Error("out of range mask layer should fail")
	}
	if _, err := Render(&psp.Document{}, FormatPNG, -1); err == nil {
		t.Error("document without layers should fail")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := Export(testDocument(), path, FormatPNG, -1, 0); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestExpandLayers(t *testing.T) {
	dir := t.TempDir()
	written, err := ExpandLayers(testDocument(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 3 {
		t.Fatalf("wrote %v", written)
	}
	want := []string{"Background.bmp", "Top_1.bmp", "Mask.bmp"}
	for i, w := range want {
		if filepath.Base(written[i]) != w {
			t.Errorf("file %d = %s, want %s", i, filepath.Base(written[i]), w)
		}
	}

	f, err := os.Open(filepath.Join(dir, "Mask.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("mask not expanded: %v", img.Bounds())
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Error("outside the mask should be black")
	}
	if r, _, _, _ := img.At(3, 1).RGBA(); r != 0xffff {
		t.Error("inside the mask should be white")
	}
}

func TestExpandBlocks(t *testing.T) {
	dir := t.TempDir()
	written, err := ExpandBlocks(testDocument(), dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range written {
		names = append(names, filepath.Base(p))
	}
	joined := strings.Join(names, " ")
	for _, w := range []string{
		"Background--bitmap_raw.bmp",
		"Background--merge_layer.bmp",
		"Background--chan_0--red.bmp",
		"Top_1--expanded_rect_mask.bmp",
		"Top_1-group_layer_mask.bmp",
		"Top_1-layer_final.bmp",
		"Top_1--merge_layer-trans.bmp",
		"Alpha--Selection.bmp",
	} {
		if !strings.Contains(joined, w) {
			t.Errorf("missing %s in %s", w, joined)
		}
	}
	for _, p := range written {
		if _, err := os.Stat(p); err != nil {
			t.Error(err)
		}
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Background", "Background"},
		{"a/b\\c:d", "a_b_c_d"},
		{"  ", "fallback"},
		{"..", "fallback"},
	}
	for _, tt := range tests {
		if got := safeName(tt.in, "fallback"); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveBMPSkipsEmptyImage(t *testing.T) {
	dir := t.TempDir()
	path, err := saveBMP(dir, "empty", GrayImage(nil, psp.Rect{TLX: 3, TLY: 3, BRX: 3, BRY: 3}))
	if err != nil || path != "" {
		t.Fatalf("saveBMP = %q, %v; want no file", path, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.bmp")); !os.IsNotExist(err) {
		t.Errorf("empty image written: %v", err)
	}
}
