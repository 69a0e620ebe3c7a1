package ovba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_ReadsLittleEndian(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xAA, 0xBB})

	v16, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v16)
	assert.Equal(t, 2, c.Pos())

	v32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x06050403), v32)
	assert.Equal(t, 6, c.Pos())

	b, err := c.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, b)
	assert.Equal(t, 0, c.Remaining())
}

func TestCursor_TruncationIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		read func(c *Cursor) error
	}{
		{
			name: "u16 short by one",
			data: []byte{0x01},
			read: func(c *Cursor) error { _, err := c.ReadU16(); return err },
		},
		{
			name: "u32 short by two",
			data: []byte{0x01, 0x02},
			read: func(c *Cursor) error { _, err := c.ReadU32(); return err },
		},
		{
			name: "bytes past end",
			data: []byte{0x01, 0x02, 0x03},
			read: func(c *Cursor) error { _, err := c.ReadBytes(4); return err },
		},
		{
			name: "empty buffer",
			data: nil,
			read: func(c *Cursor) error { _, err := c.ReadU16(); return err },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCursor(tc.data)
			err := tc.read(c)
			require.ErrorIs(t, err, ErrTruncatedStream)
			// A failed read must not advance the cursor.
			assert.Equal(t, 0, c.Pos())
		})
	}
}

func TestCursor_ZeroLengthRead(t *testing.T) {
	t.Parallel()

	c := NewCursor(nil)
	b, err := c.ReadBytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)
}
