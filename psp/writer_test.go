package psp

import (
	"bytes"
)

// Test-only PSP writer. Files are assembled from the same schemas the
// decoder reads, so a fixture and the decoder agree on every record size.

type fields map[string]uint64

func encodeChunk(s Schema, vals fields, raw map[string][]byte) []byte {
	var buf bytes.Buffer
	for _, f := range s.Fields {
		v := vals[f.Name]
		switch f.Kind {
		case U8:
			buf.WriteByte(byte(v))
		case U16:
			buf.Write(le.AppendUint16(nil, uint16(v)))
		case U32:
			buf.Write(le.AppendUint32(nil, uint32(v)))
		case U64:
			buf.Write(le.AppendUint64(nil, v))
		case Bytes:
			b := make([]byte, f.Len)
			copy(b, raw[f.Name])
			buf.Write(b)
		}
	}
	return buf.Bytes()
}

func fileHeader(major int) []byte {
	return encodeChunk(fileHeaderSchema,
		fields{"major_version": uint64(major), "minor_version": 0},
		map[string][]byte{"file_marker": []byte(FileMarker)})
}

func block(id BlockID, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	hdr := encodeChunk(genericHeaderSchema,
		fields{"block_id": uint64(id), "block_length": uint64(len(body))},
		map[string][]byte{"header_id": []byte(BlockMarker)})
	return append(hdr, body...)
}

func imageBlock(width, height, layers int, comp Compression) []byte {
	return block(BlockImage, encodeChunk(imageAttributesSchema, fields{
		"chunk_size":       uint64(imageAttributesSchema.Size()),
		"image_width":      uint64(width),
		"image_height":     uint64(height),
		"compression_type": uint64(comp),
		"bit_depth":        24,
		"layer_count":      uint64(layers),
	}, nil))
}

type testChannel struct {
	typ  ChannelType
	dib  DIBType
	data []byte
}

func channelBlock(c testChannel) []byte {
	info := encodeChunk(channelInfoSchema, fields{
		"chunk_size":         uint64(channelInfoSchema.Size()),
		"comp_channel_len":   uint64(len(c.data)),
		"uncomp_channel_len": uint64(len(c.data)),
		"bitmap_type":        uint64(c.dib),
		"channel_type":       uint64(c.typ),
	}, nil)
	return block(BlockChannel, info, c.data)
}

type testLayer struct {
	name      string
	typ       LayerType
	img       Rect
	savedImg  Rect
	mask      Rect
	savedMask Rect
	flags     uint8
	opacity   uint8
	group     int // group extension layer_count
	channels  []testChannel
	raw       fields // overrides written into the info chunk
}

func rectFields(f fields, prefix string, r Rect) {
	f[prefix+"_tl_x"] = uint64(r.TLX)
	f[prefix+"_tl_y"] = uint64(r.TLY)
	f[prefix+"_br_x"] = uint64(r.BRX)
	f[prefix+"_br_y"] = uint64(r.BRY)
}

func layerBlock(l testLayer) []byte {
	name := []byte(l.name)
	start := encodeChunk(layerInfoStartSchema, fields{
		"chunk_size":  uint64(layerInfoStartSchema.Size() + len(name) + layerInfoRestSchema.Size()),
		"name_length": uint64(len(name)),
	}, nil)

	f := fields{
		"layer_type":    uint64(l.typ),
		"layer_opacity": uint64(l.opacity),
		"layer_flags":   uint64(l.flags),
	}
	rectFields(f, "img_rect", l.img)
	rectFields(f, "saved_img_rect", l.savedImg)
	rectFields(f, "mask_rect", l.mask)
	rectFields(f, "saved_mask_rect", l.savedMask)
	for k, v := range l.raw {
		f[k] = v
	}
	rest := encodeChunk(layerInfoRestSchema, f, nil)
	unused := encodeChunk(layerInfoUnusedSchema, nil, nil)

	parts := [][]byte{start, name, rest, unused}
	switch l.typ {
	case LayerGroup:
		parts = append(parts, block(BlockGroupExtension, encodeChunk(groupExtensionSchema, fields{
			"chunk_size":  uint64(groupExtensionSchema.Size()),
			"layer_count": uint64(l.group),
		}, nil)))
	case LayerMask:
		parts = append(parts, block(BlockMaskExtension, encodeChunk(maskExtensionSchema, fields{
			"chunk_size": uint64(maskExtensionSchema.Size()),
			"opacity":    255,
		}, nil)))
	}

	if l.typ == LayerRaster || l.typ == LayerMask || l.typ == LayerGroup {
		parts = append(parts, encodeChunk(layerBitmapSchema, fields{
			"chunk_size":    uint64(layerBitmapSchema.Size()),
			"bitmap_count":  1,
			"channel_count": uint64(len(l.channels)),
		}, nil))
		for _, c := range l.channels {
			parts = append(parts, channelBlock(c))
		}
	} else {
		// opaque payload the decoder must skip
		parts = append(parts, []byte("vector data the decoder never reads"))
	}
	return block(BlockLayer, parts...)
}

func layerBank(layers ...[]byte) []byte {
	return block(BlockLayerBank, layers...)
}

type testAlpha struct {
	name  string
	rect  Rect
	saved Rect
	data  []byte // nil for no channel
}

func alphaBank(alphas ...testAlpha) []byte {
	parts := [][]byte{encodeChunk(alphaBankSchema, fields{
		"chunk_length":        uint64(alphaBankSchema.Size()),
		"alpha_channel_count": uint64(len(alphas)),
	}, nil)}

	for _, a := range alphas {
		name := []byte(a.name)
		f := fields{}
		rectFields(f, "alpha_rect", a.rect)
		rectFields(f, "saved_alpha_rect", a.saved)
		count := 0
		if a.data != nil {
			count = 1
		}
		ap := [][]byte{
			encodeChunk(alphaChannelInfoStartSchema, fields{"name_length": uint64(len(name))}, nil),
			name,
			encodeChunk(alphaChannelInfoRestSchema, f, nil),
			encodeChunk(alphaChannelBitmapSchema, fields{
				"chunk_size":    uint64(alphaChannelBitmapSchema.Size()),
				"bitmap_count":  1,
				"channel_count": uint64(count),
			}, nil),
		}
		if a.data != nil {
			ap = append(ap, channelBlock(testChannel{typ: ChannelComposite, dib: DIBSelection, data: a.data}))
		}
		parts = append(parts, block(BlockAlphaChannel, ap...))
	}
	return block(BlockAlphaBank, parts...)
}

func pspFile(blocks ...[]byte) []byte {
	return append(fileHeader(SupportedMajorVersion), bytes.Join(blocks, nil)...)
}

// rasterChannels builds R, G, B planes and an optional rectangle mask.
func rasterChannels(rgb []RGB, rectMask []byte) []testChannel {
	r := make([]byte, len(rgb))
	g := make([]byte, len(rgb))
	b := make([]byte, len(rgb))
	for i, p := range rgb {
		r[i], g[i], b[i] = p.R, p.G, p.B
	}
	chans := []testChannel{
		{typ: ChannelRed, dib: DIBImage, data: r},
		{typ: ChannelGreen, dib: DIBImage, data: g},
		{typ: ChannelBlue, dib: DIBImage, data: b},
	}
	if rectMask != nil {
		chans = append(chans, testChannel{typ: ChannelComposite, dib: DIBTransMask, data: rectMask})
	}
	return chans
}

func solid(n int, p RGB) []RGB {
	px := make([]RGB, n)
	for i := range px {
		px[i] = p
	}
	return px
}

func fill(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n)
}
