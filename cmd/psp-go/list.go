package main

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/weaming/psp-go/psp"
)

func listDocument(w io.Writer, input string, doc *psp.Document, verbose bool) {
	fmt.Fprintf(w, "BEGIN: %s\n\n", input)

	fmt.Fprintf(w, "header.\n")
	fmt.Fprintf(w, "  version           = %d.%d\n", doc.MajorVersion, doc.MinorVersion)
	fmt.Fprintf(w, "  file_size         = %d\n", doc.FileSize)
	if a := doc.Attributes; a != nil {
		fmt.Fprintf(w, "  width             = %d\n", a.Width)
		fmt.Fprintf(w, "  height            = %d\n", a.Height)
		fmt.Fprintf(w, "  bit_depth         = %d\n", a.BitDepth)
		fmt.Fprintf(w, "  compression       = %s\n", a.Compression)
		fmt.Fprintf(w, "  layer_count       = %d\n", a.LayerCount)
		if verbose && a.Chunk != nil {
			listChunk(w, a.Chunk, "  ")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "blocks.\n")
	for i, b := range doc.Blocks {
		h := b.Header()
		fmt.Fprintf(w, "  %2d: %-20s length=%d\n", i, h.ID, h.Length)
	}
	fmt.Fprintln(w)

	if lb := doc.LayerBank(); lb != nil {
		fmt.Fprintf(w, "layers.\n")
		for _, l := range lb.Layers {
			listLayer(w, l, verbose)
		}
		for _, s := range lb.Skipped {
			fmt.Fprintf(w, "  skipped [%s] %s\n", s.Name, s.Type)
		}
		fmt.Fprintln(w)
	}

	if ab := doc.AlphaBank(); ab != nil {
		fmt.Fprintf(w, "alpha channels.\n")
		for _, a := range ab.Channels {
			fmt.Fprintf(w, "  [%s] rect=%s saved=%s\n", a.Name, a.Rect, a.SavedRect)
			if a.Channel != nil && verbose {
				listChannel(w, a.Channel)
			}
		}
		fmt.Fprintln(w)
	}

	if len(doc.Warnings) > 0 {
		fmt.Fprintf(w, "warnings.\n")
		for _, warn := range doc.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "END: %s\n", input)
}

func listLayer(w io.Writer, l *psp.Layer, verbose bool) {
	visible := "hidden"
	if l.Visible() {
		visible = "visible"
	}
	fmt.Fprintf(w, "  [%d] %-16q %-12s %s opacity=%d abs=%s\n",
		l.Index, l.Name, l.Type, visible, l.Opacity(), l.AbsRect)

	if l.Sibling >= 0 {
		fmt.Fprintf(w, "       grouped with [%d]\n", l.Sibling)
	}
	if len(l.Members) > 0 {
		fmt.Fprintf(w, "       members %v\n", l.Members)
	}
	if l.Kludge != nil {
		fmt.Fprintf(w, "       kludge %dx%d\n", l.Kludge.Width, l.Kludge.Height)
	}
	if !verbose {
		return
	}

	fmt.Fprintf(w, "       image_rect       = %s\n", l.ImageRect)
	fmt.Fprintf(w, "       saved_image_rect = %s\n", l.SavedImageRect)
	fmt.Fprintf(w, "       mask_rect        = %s\n", l.MaskRect)
	fmt.Fprintf(w, "       saved_mask_rect  = %s\n", l.SavedMaskRect)
	if l.OmegaMask != nil {
		fmt.Fprintf(w, "       omega_rect       = %s\n", l.OmegaRect)
	}
	for _, ch := range l.Channels {
		listChannel(w, ch)
	}
}

// listChannel prints a channel with the mean and standard deviation of
// its samples.
func listChannel(w io.Writer, ch *psp.Channel) {
	samples := make([]float64, len(ch.Data))
	for i, v := range ch.Data {
		samples[i] = float64(v)
	}
	mean, std := 0.0, 0.0
	if len(samples) > 1 {
		mean, std = stat.MeanStdDev(samples, nil)
	} else if len(samples) == 1 {
		mean = samples[0]
	}
	fmt.Fprintf(w, "       chan %d %-9s %-9s %6d bytes  mean=%7.2f  sd=%7.2f\n",
		ch.Number, ch.ChannelType, ch.BitmapType, len(ch.Data), mean, std)
}

func listChunk(w io.Writer, c *psp.Chunk, indent string) {
	for _, name := range c.Names() {
		if b := c.Bytes(name); b != nil {
			fmt.Fprintf(w, "%s%-17s = % x\n", indent, name, b)
			continue
		}
		fmt.Fprintf(w, "%s%-17s = %d\n", indent, name, c.Uint(name))
	}
}
