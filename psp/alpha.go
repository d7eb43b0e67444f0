package psp

import (
	"fmt"

	"github.com/pkg/errors"
)

// buildAlphaBank reads alpha_channel_count alpha channel blocks. A count
// of zero is valid and yields an empty bank.
func (d *decoder) buildAlphaBank(hdr BlockHeader, info *Chunk) (Block, error) {
	bank := &AlphaBank{BlockHeader: hdr, Info: info}

	count := info.Int("alpha_channel_count")
	for i := 0; i < count; i++ {
		start := d.cr.pos
		ahdr, err := d.readBlockHeader()
		if err != nil {
			return nil, stageError(fmt.Sprintf("alpha channel[%d] header", i), start, err)
		}
		if ahdr.ID != BlockAlphaChannel {
			return nil, stageError(fmt.Sprintf("alpha channel[%d]", i), start,
				errors.Wrapf(ErrMalformed, "expected %s, found %s", BlockAlphaChannel, ahdr.ID))
		}

		payloadStart := d.cr.pos
		ac, err := d.readAlphaChannel(ahdr)
		if err == nil {
			err = d.finishBlock(ahdr, payloadStart)
		}
		if err != nil {
			return nil, stageError(fmt.Sprintf("alpha channel[%d]", i), start, err)
		}
		ac.Number = i
		bank.Channels = append(bank.Channels, ac)
		Debug("appended alpha channel [%s]: %d bytes", ac.Name, ahdr.Length)
	}
	return bank, nil
}

func (d *decoder) readAlphaChannel(hdr BlockHeader) (*AlphaChannel, error) {
	ac := &AlphaChannel{BlockHeader: hdr}

	start, err := d.cr.readChunk(alphaChannelInfoStartSchema)
	if err != nil {
		return nil, err
	}
	if ac.Name, err = d.cr.readName(start.Int("name_length")); err != nil {
		return nil, err
	}
	if ac.Info, err = d.cr.readChunk(alphaChannelInfoRestSchema); err != nil {
		return nil, err
	}
	ac.Rect = rectFromChunk(ac.Info, "alpha_rect")
	ac.SavedRect = rectFromChunk(ac.Info, "saved_alpha_rect")

	bm, err := d.cr.readChunk(alphaChannelBitmapSchema)
	if err != nil {
		return nil, err
	}

	// zero channels does happen in the wild
	switch n := bm.Int("channel_count"); {
	case n == 0:
	case n == 1:
		if ac.Channel, err = d.readChannel(0); err != nil {
			return nil, errors.Wrapf(err, "alpha [%s]", ac.Name)
		}
	default:
		d.log.Warn("alpha [%s] declares %d channels, only the first is read", ac.Name, n)
		if ac.Channel, err = d.readChannel(0); err != nil {
			return nil, errors.Wrapf(err, "alpha [%s]", ac.Name)
		}
	}
	return ac, nil
}
