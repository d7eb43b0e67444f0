package psp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Decode errors
var (
	// ErrNotThisFormat indicates the 32-byte file marker is missing
	ErrNotThisFormat = errors.New("psp: not a Paint Shop Pro image file")

	// ErrUnsupportedVersion indicates a major version other than 8
	ErrUnsupportedVersion = errors.New("psp: unsupported file version")

	// ErrUnsupportedCompression indicates compressed channels (RLE, LZ77, JPEG)
	ErrUnsupportedCompression = errors.New("psp: unsupported compression type")

	// ErrTruncatedInput indicates the stream ended inside a record
	ErrTruncatedInput = errors.New("psp: truncated input")

	// ErrInvalidBlockHeader indicates a block header without the ~BK marker
	ErrInvalidBlockHeader = errors.New("psp: invalid block header")

	// ErrMalformed indicates a structurally inconsistent file
	ErrMalformed = errors.New("psp: malformed file")

	// ErrMaskGeometry indicates a bitmap or mask whose size does not match its rectangle
	ErrMaskGeometry = errors.New("psp: bitmap does not match its rectangle")

	// ErrNotMaskable indicates a layer that cannot serve as an alpha plane
	ErrNotMaskable = errors.New("psp: layer cannot be used as a mask")
)

// DecodeError reports the decode stage and stream offset at which a
// decode failed.
type DecodeError struct {
	Stage  string // e.g. "read file header", "layer [Background]"
	Offset int64  // cursor position when the failure was detected
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("psp: %s at offset %d: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Warning is a recoverable issue found while decoding.
type Warning struct {
	Layer       string
	Field       string
	Value       int
	Replacement int
}

func (w Warning) String() string {
	return fmt.Sprintf("layer [%s], rectangle coordinate [%s] has an invalid value: [%d], set to [%d]",
		w.Layer, w.Field, w.Value, w.Replacement)
}

func stageError(stage string, offset int64, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Stage: stage, Offset: offset, Err: err}
}
