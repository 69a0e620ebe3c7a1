package ovba

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a sequential little-endian reader over an in-memory buffer.
// It tracks its own offset and never reads past the end: a short read
// fails with ErrTruncatedStream instead of returning partial data.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor wraps data without copying it. The cursor owns the buffer for
// the duration of one parse.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current offset. Used for error and diagnostic reporting
// only.
func (c *Cursor) Pos() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.off+n > len(c.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedStream, n, c.off, len(c.data)-c.off)
	}
	return nil
}

// ReadU16 consumes the next 2 bytes as an unsigned little-endian integer.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

// ReadU32 consumes the next 4 bytes as an unsigned little-endian integer.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

// ReadBytes consumes the next n bytes verbatim. The returned slice aliases
// the cursor's buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}
