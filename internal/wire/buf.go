package wire

import (
	"encoding/binary"
	"fmt"
)

// cursor is a small bounds-checked little-endian reader/writer over a
// byte slice, walking forward instead of addressing by a fixed
// config-space offset.
type cursor struct {
	buf []byte
	pos int
}

func newReader(data []byte) *cursor { return &cursor{buf: data} }
func newWriter(out []byte) *cursor  { return &cursor{buf: out} }

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) readU8() (uint8, error) {
	if c.remaining() < 1 {
		return 0, fmt.Errorf("wire: truncated reading u8 at offset %d", c.pos)
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) readU16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, fmt.Errorf("wire: truncated reading u16 at offset %d", c.pos)
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

func (c *cursor) readU32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, fmt.Errorf("wire: truncated reading u32 at offset %d", c.pos)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) readU64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, fmt.Errorf("wire: truncated reading u64 at offset %d", c.pos)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("wire: truncated reading %d bytes at offset %d", n, c.pos)
	}
	v := make([]byte, n)
	copy(v, c.buf[c.pos:c.pos+n])
	c.pos += n
	return v, nil
}

func (c *cursor) writeU8(v uint8) error {
	if c.remaining() < 1 {
		return fmt.Errorf("wire: insufficient capacity writing u8 at offset %d", c.pos)
	}
	c.buf[c.pos] = v
	c.pos++
	return nil
}

func (c *cursor) writeU16(v uint16) error {
	if c.remaining() < 2 {
		return fmt.Errorf("wire: insufficient capacity writing u16 at offset %d", c.pos)
	}
	binary.LittleEndian.PutUint16(c.buf[c.pos:c.pos+2], v)
	c.pos += 2
	return nil
}

func (c *cursor) writeU32(v uint32) error {
	if c.remaining() < 4 {
		return fmt.Errorf("wire: insufficient capacity writing u32 at offset %d", c.pos)
	}
	binary.LittleEndian.PutUint32(c.buf[c.pos:c.pos+4], v)
	c.pos += 4
	return nil
}

func (c *cursor) writeU64(v uint64) error {
	if c.remaining() < 8 {
		return fmt.Errorf("wire: insufficient capacity writing u64 at offset %d", c.pos)
	}
	binary.LittleEndian.PutUint64(c.buf[c.pos:c.pos+8], v)
	c.pos += 8
	return nil
}

func (c *cursor) writeBytes(v []byte) error {
	if c.remaining() < len(v) {
		return fmt.Errorf("wire: insufficient capacity writing %d bytes at offset %d", len(v), c.pos)
	}
	copy(c.buf[c.pos:c.pos+len(v)], v)
	c.pos += len(v)
	return nil
}
