package pixel

import "encoding/binary"

// Cursor walks a byte buffer four bytes at a time, decoding each group as a
// little-endian Color. It never reads past the end of the buffer.
type Cursor struct {
	b   []byte
	off int
}

// NewCursor returns a Cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Next returns the next Color. The boolean is false once fewer than four
// bytes remain.
func (c *Cursor) Next() (Color, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	p := Color(binary.LittleEndian.Uint32(c.b[c.off : c.off+4]))
	c.off += 4
	return p, true
}

// Remaining returns the number of whole colors left in the buffer.
func (c *Cursor) Remaining() int {
	return (len(c.b) - c.off) / 4
}
