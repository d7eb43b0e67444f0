package psp

import "fmt"

const Version = "0.3.0"

// PSP file format constants
const (
	// FileMarker is "Paint Shop Pro Image File\n\x1a" zero-padded to 32 bytes
	FileMarker = "Paint Shop Pro Image File\n\x1a\x00\x00\x00\x00\x00"

	// BlockMarker starts every block header
	BlockMarker = "~BK\x00"

	FileMarkerSize = 32

	// Only PSP X (file format 8.0) is supported
	SupportedMajorVersion = 8

	// ImplausibleCoordinate is the ceiling above which a rect field is
	// treated as garbage and reset to zero.
	ImplausibleCoordinate = 100000
)

// BlockID identifies the kind of a block.
type BlockID uint16

const (
	BlockImage BlockID = iota
	BlockCreator
	BlockColor
	BlockLayerBank
	BlockLayer
	BlockChannel
	BlockSelection
	BlockAlphaBank
	BlockAlphaChannel
	BlockCompositeImage
	BlockExtendedData
	BlockTube
	BlockAdjustmentExtension
	BlockVectorExtension
	BlockShape
	BlockPaintStyle
	BlockCompositeImageBank
	BlockCompositeAttributes
	BlockJPEG
	BlockLineStyle
	BlockTableBank
	BlockTable
	BlockPaper
	BlockPattern
	BlockGradient
	BlockGroupExtension
	BlockMaskExtension
	BlockBrush
	BlockArtMedia
	BlockArtMediaMap
	BlockArtMediaTile
	BlockArtMediaTexture
	BlockColorProfile
)

var blockNames = []string{
	"PSP_IMAGE_BLOCK",
	"PSP_CREATOR_BLOCK",
	"PSP_COLOR_BLOCK",
	"PSP_LAYER_BANK_BLOCK",
	"PSP_LAYER_BLOCK",
	"PSP_CHANNEL_BLOCK",
	"PSP_SELECTION_BLOCK",
	"PSP_ALPHA_BANK_BLOCK",
	"PSP_ALPHA_CHANNEL_BLOCK",
	"PSP_COMPOSITE_IMAGE_BLOCK",
	"PSP_EXTENDED_DATA_BLOCK",
	"PSP_TUBE_BLOCK",
	"PSP_ADJUSTMENT_EXTENSION_BLOCK",
	"PSP_VECTOR_EXTENSION_BLOCK",
	"PSP_SHAPE_BLOCK",
	"PSP_PAINTSTYLE_BLOCK",
	"PSP_COMPOSITE_IMAGE_BANK",
	"PSP_COMPOSITE_ATTRIBUTES",
	"PSP_JPEG_BLOCK",
	"PSP_LINESTYLE_BLOCK",
	"PSP_TABLE_BANK_BLOCK",
	"PSP_TABLE_BLOCK",
	"PSP_PAPER_BLOCK",
	"PSP_PATTERN_BLOCK",
	"PSP_GRADIENT_BLOCK",
	"PSP_GROUP_EXTENSION_BLOCK",
	"PSP_MASK_EXTENSION_BLOCK",
	"PSP_BRUSH_BLOCK",
	"PSP_ART_MEDIA_BLOCK",
	"PSP_ART_MEDIA_MAP_BLOCK",
	"PSP_ART_MEDIA_TILE_BLOCK",
	"PSP_ART_MEDIA_TEXTURE_BLOCK",
	"PSP_COLORPROFILE_BLOCK",
}

func (id BlockID) String() string {
	return enumName(blockNames, int(id))
}

// LayerType is the layer_type tag of a layer info chunk.
type LayerType uint8

const (
	LayerUndefined LayerType = iota
	LayerRaster
	LayerFloatingRasterSelection
	LayerVector
	LayerAdjustment
	LayerGroup
	LayerMask
	LayerArtMedia
)

var layerTypeNames = []string{
	"keGLTUndefined",
	"keGLTRaster",
	"keGLTFloatingRasterSelection",
	"keGLTVector",
	"keGLTAdjustment",
	"keGLTGroup",
	"keGLTMask",
	"keGLTArtMedia",
}

func (t LayerType) String() string {
	return enumName(layerTypeNames, int(t))
}

// Supported reports whether layers of this type are decoded.
func (t LayerType) Supported() bool {
	return t == LayerRaster || t == LayerMask || t == LayerGroup
}

// DIBType is the bitmap role of a channel.
type DIBType uint16

const (
	DIBImage DIBType = iota
	DIBTransMask
	DIBUserMask
	DIBSelection
	DIBAlphaMask
	DIBThumbnail
	DIBThumbnailTransMask
	DIBAdjustmentLayer
	DIBComposite
	DIBCompositeTransMask
	DIBPaper
	DIBPattern
	DIBPatternTransMask
)

var dibNames = []string{
	"PSP_DIB_IMAGE",
	"PSP_DIB_TRANS_MASK",
	"PSP_DIB_USER_MASK",
	"PSP_DIB_SELECTION",
	"PSP_DIB_ALPHA_MASK",
	"PSP_DIB_THUMBNAIL",
	"PSP_DIB_THUMBNAIL_TRANS_MASK",
	"PSP_DIB_ADJUSTMENT_LAYER",
	"PSP_DIB_COMPOSITE",
	"PSP_DIB_COMPOSITE_TRANS_MASK",
	"PSP_DIB_PAPER",
	"PSP_DIB_PATTERN",
	"PSP_DIB_PATTERN_TRANS_MASK",
}

func (t DIBType) String() string {
	return enumName(dibNames, int(t))
}

// Compression is the channel encoding declared by the image attributes.
type Compression uint16

const (
	CompressionNone Compression = iota
	CompressionRLE
	CompressionLZ77
	CompressionJPEG
)

var compressionNames = []string{
	"PSP_COMP_NONE",
	"PSP_COMP_RLE",
	"PSP_COMP_LZ77",
	"PSP_COMP_JPEG",
}

func (c Compression) String() string {
	return enumName(compressionNames, int(c))
}

// ChannelType is the color role of a channel.
type ChannelType uint16

const (
	ChannelComposite ChannelType = iota
	ChannelRed
	ChannelGreen
	ChannelBlue
)

var channelTypeNames = []string{
	"PSP_CHANNEL_COMPOSITE",
	"PSP_CHANNEL_RED",
	"PSP_CHANNEL_GREEN",
	"PSP_CHANNEL_BLUE",
}

func (t ChannelType) String() string {
	return enumName(channelTypeNames, int(t))
}

// Layer flags
const (
	LayerFlagVisible     = 0x01
	LayerFlagMaskPresent = 0x02
)

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}
