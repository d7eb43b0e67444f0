// Package psp decodes Paint Shop Pro (.pspimage, file format 8) layered
// images and flattens their raster layers into a single bitmap.
//
// A file is a 36-byte header followed by a stream of length-prefixed
// blocks. Blocks the decoder does not understand are skipped by their
// declared length, so alignment never depends on interpreting them.
package psp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Open decodes a PSP file. The file is closed before Open returns.
func Open(filename string, opts Options) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Decode(f, opts)
}

// DecodeBytes decodes an in-memory PSP file.
func DecodeBytes(data []byte, opts Options) (*Document, error) {
	return Decode(bytes.NewReader(data), opts)
}

// Decode reads a whole PSP file from r. Either the full document is
// returned or an error; there is no partial result.
func Decode(r io.ReadSeeker, opts Options) (*Document, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to determine file size: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind: %w", err)
	}

	d := &decoder{
		cr:   newChunkReader(r),
		size: size,
		log:  opts.Logger,
		opts: opts,
	}
	doc := &Document{FileSize: size}

	if err := d.readFileHeader(doc); err != nil {
		return nil, err
	}
	if err := d.readBlocks(doc); err != nil {
		return nil, err
	}
	doc.Attributes = d.attrs
	doc.Warnings = d.warnings
	return doc, nil
}

// decoder carries the state of one decode pass. attrs is written once,
// by the image attributes block, and only read afterwards.
type decoder struct {
	cr       *chunkReader
	size     int64
	major    int
	minor    int
	attrs    *ImageAttributes
	log      *Logger
	opts     Options
	warnings []Warning
}

func (d *decoder) readFileHeader(doc *Document) error {
	h, err := d.cr.readChunk(fileHeaderSchema)
	if err != nil {
		if errors.Is(err, ErrTruncatedInput) {
			return stageError("read file header", d.cr.pos, errors.Wrap(ErrNotThisFormat, err.Error()))
		}
		return stageError("read file header", d.cr.pos, err)
	}
	if string(h.Bytes("file_marker")) != FileMarker {
		return stageError("read file header", 0, ErrNotThisFormat)
	}

	doc.MajorVersion = h.Int("major_version")
	doc.MinorVersion = h.Int("minor_version")
	if doc.MajorVersion != SupportedMajorVersion {
		return stageError("read file header", d.cr.pos, errors.Wrapf(ErrUnsupportedVersion,
			"version [%d] not supported, only version [%d]", doc.MajorVersion, SupportedMajorVersion))
	}
	d.major, d.minor = doc.MajorVersion, doc.MinorVersion
	Debug("file version %d.%d, %d bytes", doc.MajorVersion, doc.MinorVersion, d.size)
	return nil
}

// readBlocks walks the top-level block stream until the cursor reaches
// the end of the file. Blocks with sub-blocks read their own children.
func (d *decoder) readBlocks(doc *Document) error {
	for n := 0; d.cr.pos < d.size; n++ {
		start := d.cr.pos
		hdr, err := d.readBlockHeader()
		if err != nil {
			return stageError(fmt.Sprintf("block[%d] header", n), start, err)
		}
		blk, err := d.readBlock(hdr)
		if err != nil {
			return stageError(fmt.Sprintf("block[%d][%s]", n, hdr.ID), start, err)
		}
		blk.Header().Number = n
		doc.Blocks = append(doc.Blocks, blk)
		Debug("appended block %s: %d bytes", hdr.ID, hdr.Length)
	}
	return nil
}

func (d *decoder) readBlockHeader() (BlockHeader, error) {
	c, err := d.cr.readHeader(genericHeaderSchema)
	if err != nil {
		return BlockHeader{}, err
	}
	return BlockHeader{
		ID:     BlockID(c.Uint("block_id")),
		Length: uint32(c.Uint("block_length")),
	}, nil
}

// blockBuilder constructs a recognized block from its header and info chunk.
// It must consume the rest of the block's payload, sub-blocks included.
type blockBuilder func(d *decoder, hdr BlockHeader, info *Chunk) (Block, error)

type blockSpec struct {
	schema *Schema // info chunk read before build; nil for none
	build  blockBuilder
}

// lookupBlock is the table of recognized block kinds.
func lookupBlock(id BlockID) (blockSpec, bool) {
	switch id {
	case BlockImage:
		return blockSpec{&imageAttributesSchema, (*decoder).buildImageAttributes}, true
	case BlockLayerBank:
		return blockSpec{nil, (*decoder).buildLayerBank}, true
	case BlockAlphaBank:
		return blockSpec{&alphaBankSchema, (*decoder).buildAlphaBank}, true
	case BlockGroupExtension:
		return blockSpec{&groupExtensionSchema, buildExtension}, true
	case BlockMaskExtension:
		return blockSpec{&maskExtensionSchema, buildExtension}, true
	}
	return blockSpec{}, false
}

// readBlock dispatches on the block id. Unknown blocks are skipped by their
// declared length. Recognized blocks that leave payload unread have the
// remainder skipped; reading past the declared length is an error.
func (d *decoder) readBlock(hdr BlockHeader) (Block, error) {
	spec, ok := lookupBlock(hdr.ID)
	if !ok {
		if err := d.cr.skip(int64(hdr.Length)); err != nil {
			return nil, err
		}
		return &GenericBlock{BlockHeader: hdr}, nil
	}

	start := d.cr.pos
	var info *Chunk
	if spec.schema != nil {
		var err error
		if info, err = d.cr.readChunk(*spec.schema); err != nil {
			return nil, err
		}
	}
	blk, err := spec.build(d, hdr, info)
	if err != nil {
		return nil, err
	}
	if err := d.finishBlock(hdr, start); err != nil {
		return nil, err
	}
	return blk, nil
}

// finishBlock enforces that exactly hdr.Length bytes were consumed since start.
func (d *decoder) finishBlock(hdr BlockHeader, start int64) error {
	consumed := d.cr.pos - start
	switch {
	case consumed > int64(hdr.Length):
		return errors.Wrapf(ErrMalformed, "%s declares %d bytes but %d were read",
			hdr.ID, hdr.Length, consumed)
	case consumed < int64(hdr.Length):
		Debug("%s: skipping %d trailing bytes", hdr.ID, int64(hdr.Length)-consumed)
		return d.cr.skip(int64(hdr.Length) - consumed)
	}
	return nil
}

// readSubBlock reads a nested block through the same dispatch table.
func (d *decoder) readSubBlock() (Block, error) {
	hdr, err := d.readBlockHeader()
	if err != nil {
		return nil, err
	}
	return d.readBlock(hdr)
}

func (d *decoder) buildImageAttributes(hdr BlockHeader, info *Chunk) (Block, error) {
	if d.attrs != nil {
		return nil, errors.Wrap(ErrMalformed, "duplicate image attributes block")
	}

	attrs := &ImageAttributes{
		Width:        info.Int("image_width"),
		Height:       info.Int("image_height"),
		LayerCount:   info.Int("layer_count"),
		Compression:  Compression(info.Uint("compression_type")),
		BitDepth:     info.Int("bit_depth"),
		ColorCount:   info.Int("color_count"),
		TotalSize:    info.Int("total_image_size"),
		MajorVersion: d.major,
		MinorVersion: d.minor,
		Chunk:        info,
	}
	if attrs.Compression != CompressionNone {
		return nil, errors.Wrapf(ErrUnsupportedCompression,
			"compression type [%s] not currently supported", attrs.Compression)
	}
	d.attrs = attrs
	d.log.Info("image %dx%d, %d layers, bit depth %d", attrs.Width, attrs.Height, attrs.LayerCount, attrs.BitDepth)

	return &ImageAttributesBlock{BlockHeader: hdr, Info: info}, nil
}

func buildExtension(_ *decoder, hdr BlockHeader, info *Chunk) (Block, error) {
	return &ExtensionBlock{BlockHeader: hdr, Info: info}, nil
}
