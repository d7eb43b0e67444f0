package psp

// Document is a fully decoded PSP file
type Document struct {
	FileSize     int64
	MajorVersion int
	MinorVersion int
	Attributes   *ImageAttributes
	Blocks       []Block
	Warnings     []Warning
}

// ImageAttributes is the decode context built by the general image
// attributes block. It is read-only once built.
type ImageAttributes struct {
	Width        int
	Height       int
	LayerCount   int
	Compression  Compression
	BitDepth     int
	ColorCount   int
	TotalSize    int
	MajorVersion int
	MinorVersion int
	Chunk        *Chunk
}

// Block is one of the recognized block kinds, or a GenericBlock.
type Block interface {
	Header() *BlockHeader
	isBlock()
}

// BlockHeader is shared by every block.
type BlockHeader struct {
	ID     BlockID
	Length uint32 // payload length, excluding the 10-byte header
	Number int    // ordinal among siblings, diagnostics only
}

func (h *BlockHeader) Header() *BlockHeader { return h }
func (h *BlockHeader) isBlock()             {}

// GenericBlock is a block whose payload was skipped.
type GenericBlock struct {
	BlockHeader
}

// ImageAttributesBlock is the PSP_IMAGE_BLOCK.
type ImageAttributesBlock struct {
	BlockHeader
	Info *Chunk
}

// ExtensionBlock is a group or mask extension nested inside a layer.
type ExtensionBlock struct {
	BlockHeader
	Info *Chunk
}

// LayerBank owns the layer arena and, after compositing, the flattened bitmap.
type LayerBank struct {
	BlockHeader
	Layers  []*Layer
	Skipped []SkippedLayer
	Bitmap  []RGB
}

// SkippedLayer records a layer of an unsupported type.
type SkippedLayer struct {
	Name string
	Type LayerType
}

// AlphaBank holds image-scoped alpha channels.
type AlphaBank struct {
	BlockHeader
	Info     *Chunk
	Channels []*AlphaChannel
}

// AlphaChannel is a named selection / transparency source.
type AlphaChannel struct {
	BlockHeader
	Name      string
	Info      *Chunk
	Rect      Rect
	SavedRect Rect
	Channel   *Channel // nil when the file stores no bitmap
}

// RGB is one 8-bit color pixel.
type RGB struct {
	R, G, B uint8
}

// Layer is a Raster, Mask or Group layer of a LayerBank.
type Layer struct {
	BlockHeader
	Name  string
	Type  LayerType
	Index int // position in LayerBank.Layers
	Info  *Chunk

	ImageRect      Rect
	SavedImageRect Rect
	MaskRect       Rect
	SavedMaskRect  Rect
	// AbsRect holds the visible bits, relative to the whole image.
	AbsRect Rect

	BitmapCount  int
	ChannelCount int
	Channels     []*Channel

	RGB      []RGB   // Raster
	Gray     []uint8 // Mask
	RectMask []uint8 // Raster, at AbsRect

	LayerMask     []uint8 // from the grouped Mask layer
	LayerMaskRect Rect
	LayerScaled   []uint8 // LayerMask cropped to OmegaRect

	// OmegaMask combines RectMask and LayerMask over OmegaRect.
	OmegaMask []uint8
	OmegaRect Rect

	GroupExtension *ExtensionBlock
	MaskExtension  *ExtensionBlock

	Members []int // Group: raster and mask indices
	Sibling int   // Raster <-> Mask pairing, -1 when ungrouped

	Kludge *KludgeBounds
}

// Channel is one decoded color or mask plane.
type Channel struct {
	BlockHeader
	Number          int
	ChannelType     ChannelType
	BitmapType      DIBType
	CompressedLen   int
	UncompressedLen int
	Data            []uint8
}

// Options control decoding.
type Options struct {
	Logger *Logger
	// SkipHidden drops raster layers whose visible flag is clear from
	// the flattened bitmap.
	SkipHidden bool
}

// Visible reports the layer's visible flag.
func (l *Layer) Visible() bool {
	return l.Info.Uint("layer_flags")&LayerFlagVisible != 0
}

// Opacity returns the layer opacity, 0-255.
func (l *Layer) Opacity() int {
	return l.Info.Int("layer_opacity")
}

func (l *Layer) Width() int {
	return l.AbsRect.Width()
}

func (l *Layer) Height() int {
	return l.AbsRect.Height()
}

// GroupCount is the number of grouped layers declared by a Group layer.
func (l *Layer) GroupCount() int {
	if l.GroupExtension == nil {
		return 0
	}
	return l.GroupExtension.Info.Int("layer_count")
}
