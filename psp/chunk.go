package psp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

var le = binary.LittleEndian

// FieldKind is the primitive type of a chunk field.
type FieldKind int

const (
	U8 FieldKind = iota
	U16
	U32
	U64
	Bytes
)

// Field is one named, fixed-width field of a chunk schema.
type Field struct {
	Name string
	Kind FieldKind
	Len  int // Bytes only
}

func (f Field) size() int {
	switch f.Kind {
	case U8:
		return 1
	case U16:
		return 2
	case U32:
		return 4
	case U64:
		return 8
	default:
		return f.Len
	}
}

// Schema is an ordered, unpadded little-endian record layout.
type Schema struct {
	Name   string
	Fields []Field
}

// Size returns the exact number of bytes the schema occupies.
func (s Schema) Size() int {
	n := 0
	for _, f := range s.Fields {
		n += f.size()
	}
	return n
}

// Chunk holds decoded field values in schema order.
type Chunk struct {
	schema Schema
	ints   map[string]uint64
	bytes  map[string][]byte
}

// Names returns the field names in schema order.
func (c *Chunk) Names() []string {
	names := make([]string, len(c.schema.Fields))
	for i, f := range c.schema.Fields {
		names[i] = f.Name
	}
	return names
}

// Uint returns an integer field, or 0 when the field does not exist.
func (c *Chunk) Uint(name string) uint64 {
	if c == nil {
		return 0
	}
	return c.ints[name]
}

// Int returns an integer field as int.
func (c *Chunk) Int(name string) int {
	return int(c.Uint(name))
}

// Bytes returns a byte-string field.
func (c *Chunk) Bytes(name string) []byte {
	if c == nil {
		return nil
	}
	return c.bytes[name]
}

// Set overwrites an integer field.
func (c *Chunk) Set(name string, v uint64) {
	if _, ok := c.ints[name]; ok {
		c.ints[name] = v
	}
}

// decodeChunk decodes buf, which must be exactly s.Size() bytes long.
func decodeChunk(s Schema, buf []byte) *Chunk {
	c := &Chunk{
		schema: s,
		ints:   make(map[string]uint64, len(s.Fields)),
		bytes:  make(map[string][]byte),
	}
	offset := 0
	for _, f := range s.Fields {
		switch f.Kind {
		case U8:
			c.ints[f.Name] = uint64(buf[offset])
		case U16:
			c.ints[f.Name] = uint64(le.Uint16(buf[offset:]))
		case U32:
			c.ints[f.Name] = uint64(le.Uint32(buf[offset:]))
		case U64:
			c.ints[f.Name] = le.Uint64(buf[offset:])
		case Bytes:
			v := make([]byte, f.Len)
			copy(v, buf[offset:offset+f.Len])
			c.bytes[f.Name] = v
		}
		offset += f.size()
	}
	return c
}

// chunkReader reads schema-driven records and tracks the stream cursor.
type chunkReader struct {
	r   io.Reader
	pos int64
}

func newChunkReader(r io.Reader) *chunkReader {
	return &chunkReader{r: r}
}

// readBytes reads exactly n bytes.
func (cr *chunkReader) readBytes(n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrMalformed, "negative length %d for %s", n, what)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(cr.r, buf)
	cr.pos += int64(got)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %s needs %d bytes, got %d: %w",
			ErrTruncatedInput, what, n, got, err))
	}
	return buf, nil
}

func (cr *chunkReader) readChunk(s Schema) (*Chunk, error) {
	buf, err := cr.readBytes(s.Size(), s.Name)
	if err != nil {
		return nil, err
	}
	Debug("chunk %s: %d bytes at %d", s.Name, len(buf), cr.pos-int64(len(buf)))
	return decodeChunk(s, buf), nil
}

// readHeader reads a chunk whose header_id field must equal BlockMarker.
func (cr *chunkReader) readHeader(s Schema) (*Chunk, error) {
	c, err := cr.readChunk(s)
	if err != nil {
		return nil, err
	}
	if id := c.Bytes("header_id"); string(id) != BlockMarker {
		return nil, errors.Wrapf(ErrInvalidBlockHeader, "marker %q", id)
	}
	return c, nil
}

// readName reads a variable-length Windows-1252 name.
func (cr *chunkReader) readName(n int) (string, error) {
	buf, err := cr.readBytes(n, "name")
	if err != nil {
		return "", err
	}
	name, err := charmap.Windows1252.NewDecoder().Bytes(buf)
	if err != nil {
		return "", errors.Wrapf(err, "decode name %q", buf)
	}
	return string(name), nil
}

// skip discards n bytes, seeking when the source allows it.
func (cr *chunkReader) skip(n int64) error {
	if n < 0 {
		return errors.Wrapf(ErrMalformed, "cannot skip %d bytes", n)
	}
	if n == 0 {
		return nil
	}
	if s, ok := cr.r.(io.Seeker); ok {
		cur, err := s.Seek(0, io.SeekCurrent)
		if err == nil {
			end, err := s.Seek(0, io.SeekEnd)
			if err != nil {
				return errors.WithStack(err)
			}
			if cur+n > end {
				if _, err := s.Seek(end, io.SeekStart); err != nil {
					return errors.WithStack(err)
				}
				cr.pos += end - cur
				return errors.WithStack(fmt.Errorf("%w: skip of %d bytes past end of stream",
					ErrTruncatedInput, n))
			}
			if _, err := s.Seek(cur+n, io.SeekStart); err != nil {
				return errors.WithStack(err)
			}
			cr.pos += n
			return nil
		}
	}
	got, err := io.CopyN(io.Discard, cr.r, n)
	cr.pos += got
	if err != nil {
		return errors.WithStack(fmt.Errorf("%w: skip of %d bytes, got %d: %w",
			ErrTruncatedInput, n, got, err))
	}
	return nil
}
