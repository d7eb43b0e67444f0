package psp

import (
	"github.com/pkg/errors"
)

// readChannel reads one channel block: header, channel info chunk and
// comp_channel_len bytes of payload.
func (d *decoder) readChannel(number int) (*Channel, error) {
	if d.attrs == nil {
		return nil, errors.Wrap(ErrMalformed, "channel before image attributes")
	}

	hdr, err := d.readBlockHeader()
	if err != nil {
		return nil, err
	}
	if hdr.ID != BlockChannel {
		return nil, errors.Wrapf(ErrMalformed, "expected %s, found %s", BlockChannel, hdr.ID)
	}
	start := d.cr.pos

	info, err := d.cr.readChunk(channelInfoSchema)
	if err != nil {
		return nil, err
	}
	ch := &Channel{
		BlockHeader:     hdr,
		Number:          number,
		ChannelType:     ChannelType(info.Uint("channel_type")),
		BitmapType:      DIBType(info.Uint("bitmap_type")),
		CompressedLen:   info.Int("comp_channel_len"),
		UncompressedLen: info.Int("uncomp_channel_len"),
	}

	raw, err := d.cr.readBytes(ch.CompressedLen, "channel data")
	if err != nil {
		return nil, err
	}
	if ch.Data, err = decompress(raw, d.attrs.Compression, ch.UncompressedLen); err != nil {
		return nil, err
	}
	if err := d.finishBlock(hdr, start); err != nil {
		return nil, err
	}
	return ch, nil
}

// decompress turns a channel payload into one byte per pixel. Only
// uncompressed payloads are understood.
func decompress(raw []byte, c Compression, want int) ([]uint8, error) {
	switch c {
	case CompressionNone:
		if want != len(raw) {
			Debug("uncompressed channel declares %d bytes, holds %d", want, len(raw))
		}
		return raw, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedCompression, "compression type [%s]", c)
	}
}
