package psp

// Record layouts of PSP file format 8. All little-endian, unpadded.

var fileHeaderSchema = Schema{Name: "file_header", Fields: []Field{
	{Name: "file_marker", Kind: Bytes, Len: FileMarkerSize},
	{Name: "major_version", Kind: U16},
	{Name: "minor_version", Kind: U16},
}}

// block_length excludes the header itself
var genericHeaderSchema = Schema{Name: "generic_header", Fields: []Field{
	{Name: "header_id", Kind: Bytes, Len: 4},
	{Name: "block_id", Kind: U16},
	{Name: "block_length", Kind: U32},
}}

var imageAttributesSchema = Schema{Name: "general_image_attributes", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "image_width", Kind: U32},
	{Name: "image_height", Kind: U32},
	{Name: "resolution_val", Kind: U64},
	{Name: "resolution_metric", Kind: U8},
	{Name: "compression_type", Kind: U16},
	{Name: "bit_depth", Kind: U16},
	{Name: "plane_count", Kind: U16},
	{Name: "color_count", Kind: U32},
	{Name: "greyscale_flag", Kind: U8},
	{Name: "total_image_size", Kind: U32},
	{Name: "active_layer", Kind: U32},
	{Name: "layer_count", Kind: U16},
	{Name: "graphics_content", Kind: U32},
}}

// The layer information chunk is read in pieces since the name is variable-length.
var layerInfoStartSchema = Schema{Name: "layer_info_start", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "name_length", Kind: U16},
}}

var layerInfoRestSchema = Schema{Name: "layer_info_rest", Fields: []Field{
	{Name: "layer_type", Kind: U8},
	{Name: "img_rect_tl_x", Kind: U32},
	{Name: "img_rect_tl_y", Kind: U32},
	{Name: "img_rect_br_x", Kind: U32},
	{Name: "img_rect_br_y", Kind: U32},
	{Name: "saved_img_rect_tl_x", Kind: U32},
	{Name: "saved_img_rect_tl_y", Kind: U32},
	{Name: "saved_img_rect_br_x", Kind: U32},
	{Name: "saved_img_rect_br_y", Kind: U32},
	{Name: "layer_opacity", Kind: U8},
	{Name: "blending_mode", Kind: U8},
	{Name: "layer_flags", Kind: U8},
	{Name: "transparency_protected", Kind: U8},
	{Name: "link_group", Kind: U8},
	{Name: "mask_rect_tl_x", Kind: U32},
	{Name: "mask_rect_tl_y", Kind: U32},
	{Name: "mask_rect_br_x", Kind: U32},
	{Name: "mask_rect_br_y", Kind: U32},
	{Name: "saved_mask_rect_tl_x", Kind: U32},
	{Name: "saved_mask_rect_tl_y", Kind: U32},
	{Name: "saved_mask_rect_br_x", Kind: U32},
	{Name: "saved_mask_rect_br_y", Kind: U32},
	{Name: "mask_linked", Kind: U8},
	{Name: "mask_disabled", Kind: U8},
	{Name: "invert_mask", Kind: U8},
	{Name: "blend_range", Kind: U16},
}}

// Blend table trailing the layer info chunk; read only to stay aligned.
var layerInfoUnusedSchema = Schema{Name: "layer_info_unused", Fields: []Field{
	{Name: "source_blend_1", Kind: U32},
	{Name: "dest_blend_1", Kind: U32},
	{Name: "source_blend_2", Kind: U32},
	{Name: "dest_blend_2", Kind: U32},
	{Name: "source_blend_3", Kind: U32},
	{Name: "dest_blend_3", Kind: U32},
	{Name: "source_blend_4", Kind: U32},
	{Name: "dest_blend_4", Kind: U32},
	{Name: "source_blend_5", Kind: U32},
	{Name: "dest_blend_5", Kind: U32},
	{Name: "use_highlight_color", Kind: U8},
	{Name: "highlight_color", Kind: U32},
}}

var groupExtensionSchema = Schema{Name: "group_layer_info", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "layer_count", Kind: U32},
	{Name: "linked", Kind: U8},
}}

var maskExtensionSchema = Schema{Name: "mask_layer_info", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "overlay_color", Kind: U32},
	{Name: "opacity", Kind: U8},
}}

var layerBitmapSchema = Schema{Name: "layer_bitmap", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "bitmap_count", Kind: U16},
	{Name: "channel_count", Kind: U16},
}}

var alphaBankSchema = Schema{Name: "alpha_bank_info", Fields: []Field{
	{Name: "chunk_length", Kind: U32},
	{Name: "alpha_channel_count", Kind: U16},
}}

var alphaChannelInfoStartSchema = Schema{Name: "alpha_channel_info_start", Fields: []Field{
	{Name: "chunk_length", Kind: U32},
	{Name: "name_length", Kind: U16},
}}

var alphaChannelInfoRestSchema = Schema{Name: "alpha_channel_info_rest", Fields: []Field{
	{Name: "alpha_rect_tl_x", Kind: U32},
	{Name: "alpha_rect_tl_y", Kind: U32},
	{Name: "alpha_rect_br_x", Kind: U32},
	{Name: "alpha_rect_br_y", Kind: U32},
	{Name: "saved_alpha_rect_tl_x", Kind: U32},
	{Name: "saved_alpha_rect_tl_y", Kind: U32},
	{Name: "saved_alpha_rect_br_x", Kind: U32},
	{Name: "saved_alpha_rect_br_y", Kind: U32},
}}

var alphaChannelBitmapSchema = Schema{Name: "alpha_channel_bitmap", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "bitmap_count", Kind: U16},
	{Name: "channel_count", Kind: U16},
}}

var channelInfoSchema = Schema{Name: "channel_info", Fields: []Field{
	{Name: "chunk_size", Kind: U32},
	{Name: "comp_channel_len", Kind: U32},
	{Name: "uncomp_channel_len", Kind: U32},
	{Name: "bitmap_type", Kind: U16},
	{Name: "channel_type", Kind: U16},
}}
