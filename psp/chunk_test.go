package psp

import (
	"bytes"
	"io"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"
)

func TestSchemaSizes(t *testing.T) {
	tests := []struct {
		schema Schema
		want   int
	}{
		{fileHeaderSchema, 36},
		{genericHeaderSchema, 10},
		{imageAttributesSchema, 46},
		{layerInfoStartSchema, 6},
		{layerInfoRestSchema, 75},
		{layerInfoUnusedSchema, 45},
		{layerBitmapSchema, 8},
		{channelInfoSchema, 16},
		{alphaBankSchema, 6},
		{alphaChannelInfoRestSchema, 32},
	}
	for _, tt := range tests {
		if got := tt.schema.Size(); got != tt.want {
			t.Errorf("%s: size = %d, want %d", tt.schema.Name, got, tt.want)
		}
	}
}

func TestDecodeChunk(t *testing.T) {
	s := Schema{Name: "test", Fields: []Field{
		{Name: "a", Kind: U8},
		{Name: "b", Kind: U16},
		{Name: "c", Kind: U32},
		{Name: "d", Kind: U64},
		{Name: "tag", Kind: Bytes, Len: 3},
	}}
	buf := []byte{
		0x7f,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		1, 0, 0, 0, 0, 0, 0, 0x80,
		'a', 'b', 'c',
	}
	c := decodeChunk(s, buf)

	if got := c.Uint("a"); got != 0x7f {
		t.Errorf("a = %#x", got)
	}
	if got := c.Uint("b"); got != 0x1234 {
		t.Errorf("b = %#x", got)
	}
	if got := c.Uint("c"); got != 0x12345678 {
		t.Errorf("c = %#x", got)
	}
	if got := c.Uint("d"); got != 0x8000000000000001 {
		t.Errorf("d = %#x", got)
	}
	if got := string(c.Bytes("tag")); got != "abc" {
		t.Errorf("tag = %q", got)
	}
	if got := c.Uint("missing"); got != 0 {
		t.Errorf("missing = %d", got)
	}

	names := c.Names()
	if len(names) != 5 || names[0] != "a" || names[4] != "tag" {
		t.Errorf("names = %v", names)
	}

	c.Set("b", 7)
	c.Set("missing", 7)
	if c.Uint("b") != 7 || c.Uint("missing") != 0 {
		t.Errorf("Set: b=%d missing=%d", c.Uint("b"), c.Uint("missing"))
	}

	var nilChunk *Chunk
	if nilChunk.Uint("a") != 0 || nilChunk.Bytes("tag") != nil {
		t.Error("nil chunk should read as zero")
	}
}

func TestChunkReaderTruncated(t *testing.T) {
	cr := newChunkReader(bytes.NewReader([]byte{1, 2, 3}))
	_, err := cr.readChunk(layerBitmapSchema)
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("error = %v, want ErrTruncatedInput", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v does not wrap the stream error", err)
	}
	if cr.pos != 3 {
		t.Errorf("cursor = %d, want 3", cr.pos)
	}
}

func TestReadHeaderMarker(t *testing.T) {
	good := block(BlockCreator)
	cr := newChunkReader(bytes.NewReader(good))
	c, err := cr.readHeader(genericHeaderSchema)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if BlockID(c.Uint("block_id")) != BlockCreator {
		t.Errorf("block id = %d", c.Uint("block_id"))
	}

	bad := append([]byte("~BZ\x00"), good[4:]...)
	cr = newChunkReader(bytes.NewReader(bad))
	if _, err := cr.readHeader(genericHeaderSchema); !errors.Is(err, ErrInvalidBlockHeader) {
		t.Errorf("error = %v, want ErrInvalidBlockHeader", err)
	}
}

// onlyReader hides the Seeker of its source.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestSkip(t *testing.T) {
	data := []byte("0123456789")
	sources := map[string]func() io.Reader{
		"seeker": func() io.Reader { return bytes.NewReader(data) },
		"stream": func() io.Reader { return onlyReader{bytes.NewReader(data)} },
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			cr := newChunkReader(src())
			if err := cr.skip(4); err != nil {
				t.Fatalf("skip: %v", err)
			}
			b, err := cr.readBytes(2, "pair")
			if err != nil {
				t.Fatalf("readBytes: %v", err)
			}
			if string(b) != "45" || cr.pos != 6 {
				t.Errorf("read %q at %d", b, cr.pos)
			}
			if err := cr.skip(-1); !errors.Is(err, ErrMalformed) {
				t.Errorf("negative skip error = %v", err)
			}
			if err := cr.skip(100); !errors.Is(err, ErrTruncatedInput) {
				t.Errorf("overlong skip error = %v", err)
			}
		})
	}
}

var errSeekFailed = errors.New("seek failed")

// flakySeeker fails its Seek calls from the fail-th one on.
type flakySeeker struct {
	*bytes.Reader
	calls, fail int
}

func (f *flakySeeker) Seek(offset int64, whence int) (int64, error) {
	f.calls++
	if f.calls >= f.fail {
		return 0, errSeekFailed
	}
	return f.Reader.Seek(offset, whence)
}

func TestSkipPastEndSeekError(t *testing.T) {
	// current, end, then the seek to the end of the stream
	cr := newChunkReader(&flakySeeker{Reader: bytes.NewReader([]byte("0123")), fail: 3})
	err := cr.skip(10)
	if !errors.Is(err, errSeekFailed) {
		t.Errorf("error = %v, want the seek error", err)
	}
}

func TestReadNameWindows1252(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	cr := newChunkReader(bytes.NewReader(all))
	name, err := cr.readName(len(all))
	if err != nil {
		t.Fatalf("readName: %v", err)
	}
	if !utf8.ValidString(name) {
		t.Errorf("name is not valid UTF-8: %q", name)
	}
	if r := []rune(name); len(r) != 256 || r[0xe9] != 'é' || r[0x80] != '€' {
		t.Errorf("unexpected decoding %q", name)
	}
}
