package psp

import (
	"fmt"

	"github.com/pkg/errors"
)

// buildLayerBank reads LayerCount layer blocks, then pairs grouped layers,
// builds their masks and flattens the stack. Pairing has to wait until every
// layer is read because a layer's mask follows it in the stream.
func (d *decoder) buildLayerBank(hdr BlockHeader, _ *Chunk) (Block, error) {
	if d.attrs == nil {
		return nil, errors.Wrap(ErrMalformed, "layer bank before image attributes")
	}

	bank := &LayerBank{BlockHeader: hdr}
	for i := 0; i < d.attrs.LayerCount; i++ {
		start := d.cr.pos
		lhdr, err := d.readBlockHeader()
		if err != nil {
			return nil, stageError(fmt.Sprintf("layer[%d] header", i), start, err)
		}
		if lhdr.ID != BlockLayer {
			return nil, stageError(fmt.Sprintf("layer[%d]", i), start,
				errors.Wrapf(ErrMalformed, "expected %s, found %s", BlockLayer, lhdr.ID))
		}

		payloadStart := d.cr.pos
		layer, err := d.readLayer(lhdr)
		if err == nil {
			err = d.finishBlock(lhdr, payloadStart)
		}
		if err != nil {
			name := ""
			if layer != nil {
				name = layer.Name
			}
			return nil, stageError(fmt.Sprintf("layer[%d] [%s]", i, name), start, err)
		}

		if !layer.Type.Supported() {
			bank.Skipped = append(bank.Skipped, SkippedLayer{Name: layer.Name, Type: layer.Type})
			d.log.Info("skipping layer [%s], type = %s", layer.Name, layer.Type)
			continue
		}
		layer.Index = len(bank.Layers)
		layer.Number = layer.Index
		bank.Layers = append(bank.Layers, layer)
		Debug("appended layer [%s]: %s, %d bytes", layer.Name, layer.Type, lhdr.Length)
	}

	d.resolveGroups(bank)
	for _, layer := range bank.Layers {
		if err := layer.generateLayerMask(bank); err != nil {
			return nil, errors.Wrapf(err, "layer mask for [%s]", layer.Name)
		}
	}
	if err := d.combineLayers(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// readLayer decodes one layer block payload. Layers of unsupported types
// are returned with only their info chunk, the rest of the block skipped.
func (d *decoder) readLayer(hdr BlockHeader) (*Layer, error) {
	layer := &Layer{BlockHeader: hdr, Sibling: -1}

	start, err := d.cr.readChunk(layerInfoStartSchema)
	if err != nil {
		return nil, err
	}
	nameLen := start.Int("name_length")
	if layer.Name, err = d.cr.readName(nameLen); err != nil {
		return nil, err
	}
	if layer.Info, err = d.cr.readChunk(layerInfoRestSchema); err != nil {
		return layer, err
	}
	if _, err = d.cr.readChunk(layerInfoUnusedSchema); err != nil {
		return layer, err
	}
	layer.Type = LayerType(layer.Info.Uint("layer_type"))
	Debug("working on layer [%s], type = %s", layer.Name, layer.Type)

	if !layer.Type.Supported() {
		read := layerInfoStartSchema.Size() + nameLen +
			layerInfoRestSchema.Size() + layerInfoUnusedSchema.Size()
		return layer, d.cr.skip(int64(hdr.Length) - int64(read))
	}

	switch layer.Type {
	case LayerGroup:
		ext, err := d.readExtension(BlockGroupExtension)
		if err != nil {
			return layer, err
		}
		layer.GroupExtension = ext
	case LayerMask:
		ext, err := d.readExtension(BlockMaskExtension)
		if err != nil {
			return layer, err
		}
		layer.MaskExtension = ext
	}

	bm, err := d.cr.readChunk(layerBitmapSchema)
	if err != nil {
		return layer, err
	}
	layer.BitmapCount = bm.Int("bitmap_count")
	layer.ChannelCount = bm.Int("channel_count")

	if layer.Type == LayerGroup {
		layer.parseRects()
		return layer, nil
	}

	warnings, kludge := RecoverCoordinates(layer.Info, layer.Name, d.attrs.Width, d.attrs.Height)
	for _, w := range warnings {
		d.warn(w)
	}
	layer.Kludge = kludge
	layer.parseRects()
	layer.computeAbsRect(d.attrs.Width, d.attrs.Height)

	if err := d.processChannels(layer); err != nil {
		return layer, err
	}
	d.kludgeFixBitmap(layer)
	return layer, nil
}

// readExtension reads the extension sub-block of a group or mask layer.
// A different block kind is tolerated and leaves the layer without one.
func (d *decoder) readExtension(want BlockID) (*ExtensionBlock, error) {
	blk, err := d.readSubBlock()
	if err != nil {
		return nil, err
	}
	ext, ok := blk.(*ExtensionBlock)
	if !ok || ext.ID != want {
		d.log.Warn("expected %s, found %s", want, blk.Header().ID)
		return nil, nil
	}
	return ext, nil
}

func (l *Layer) parseRects() {
	l.ImageRect = rectFromChunk(l.Info, "img_rect")
	l.SavedImageRect = rectFromChunk(l.Info, "saved_img_rect")
	l.MaskRect = rectFromChunk(l.Info, "mask_rect")
	l.SavedMaskRect = rectFromChunk(l.Info, "saved_mask_rect")
}

func rectFromChunk(c *Chunk, prefix string) Rect {
	return Rect{
		TLX: c.Int(prefix + "_tl_x"),
		TLY: c.Int(prefix + "_tl_y"),
		BRX: c.Int(prefix + "_br_x"),
		BRY: c.Int(prefix + "_br_y"),
	}
}

// computeAbsRect picks the rectangle holding the visible bits, relative to
// the whole image. Either the outer rect is smaller than the image and is the
// answer, or it spans the whole image and the saved (inner) rect is.
func (l *Layer) computeAbsRect(width, height int) {
	outer, inner := l.ImageRect, l.SavedImageRect
	if l.Type == LayerMask {
		outer, inner = l.MaskRect, l.SavedMaskRect
	}

	l.AbsRect = outer
	if outer == (Rect{0, 0, width, height}) {
		l.AbsRect = inner
	}
}

// processChannels reads the layer's channels. A raster layer has three
// color channels plus an optional transparency rectangle mask; a mask layer
// has a single greyscale channel.
func (d *decoder) processChannels(l *Layer) error {
	for i := 0; i < l.ChannelCount; i++ {
		ch, err := d.readChannel(i)
		if err != nil {
			return errors.Wrapf(err, "channel[%d]", i)
		}
		l.Channels = append(l.Channels, ch)
		Debug("appended channel %s: %d bytes", ch.ChannelType, ch.CompressedLen)
	}

	if l.Type == LayerRaster && len(l.Channels) > 2 {
		rgb, err := interleaveRGB(l.Channels[0].Data, l.Channels[1].Data, l.Channels[2].Data)
		if err != nil {
			return err
		}
		l.RGB = rgb
	}

	if len(l.Channels) > 3 && l.Channels[3].BitmapType == DIBTransMask {
		l.RectMask = l.Channels[3].Data
	}

	if l.Type == LayerMask && len(l.Channels) > 0 {
		l.Gray = l.Channels[0].Data
	}
	return nil
}

func interleaveRGB(r, g, b []uint8) ([]RGB, error) {
	if len(r) != len(g) || len(r) != len(b) {
		return nil, errors.Wrapf(ErrMaskGeometry, "color channels of %d/%d/%d bytes", len(r), len(g), len(b))
	}
	rgb := make([]RGB, len(r))
	for i := range rgb {
		rgb[i] = RGB{R: r[i], G: g[i], B: b[i]}
	}
	return rgb, nil
}

// kludgeFixBitmap re-crops bitmaps that were stored at the overrunning
// pre-clamp size down to the image size.
func (d *decoder) kludgeFixBitmap(l *Layer) {
	if l.Kludge == nil {
		return
	}
	outer := Rect{0, 0, l.Kludge.Width, l.Kludge.Height}
	inner := Rect{0, 0, d.attrs.Width, d.attrs.Height}

	recrop := func(what string, n int, crop func() error) {
		if n == 0 {
			return
		}
		if n != outer.Area() {
			d.log.Warn("layer [%s]: %s has %d pixels, not %dx%d; left as is",
				l.Name, what, n, outer.Width(), outer.Height())
			return
		}
		if err := crop(); err != nil {
			d.log.Warn("layer [%s]: %s: %v", l.Name, what, err)
		}
	}

	recrop("bitmap", len(l.RGB), func() (err error) {
		l.RGB, err = SubMask(l.RGB, outer, inner)
		return err
	})
	recrop("bitmap", len(l.Gray), func() (err error) {
		l.Gray, err = SubMask(l.Gray, outer, inner)
		return err
	})
	recrop("rectangle mask", len(l.RectMask), func() (err error) {
		l.RectMask, err = SubMask(l.RectMask, outer, inner)
		return err
	})
}

func (d *decoder) warn(w Warning) {
	d.warnings = append(d.warnings, w)
	d.log.Warn("%s", w)
}
