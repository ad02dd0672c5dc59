/*
Package dg5 implements a DG5 image decoder and encoder.

A DG5 file is a 12 byte header, a 96 byte palette block and a pixel block.
All integers are little-endian.

	offset 0   2 bytes  magic "DG"
	offset 2   2 bytes  width
	offset 4   2 bytes  height
	offset 6   1 byte   palette mode
	offset 7   1 byte   dither mode
	offset 8   4 bytes  pixel block length
	offset 12  96 bytes palette, 32 entries of R, G and B where only the low
	                    nibble of B is kept
	offset 108 pixel block

Each pixel is reduced to a 5-bit code: two bits of red, two bits of green and
one bit of blue, packed as RRGGB. The image is cut into columns eight pixels
wide, the last one padded with zero codes. Every row of a column is written
as five bytes, one per code bit from bit 0 to bit 4, where bit k of each byte
holds that code bit of pixel k.

Decoding expands the codes back onto the fixed 2-2-1 lattice and never
consults the stored palette, so only images already on that lattice survive
a round trip unchanged.

The decoder refuses images of more than 1<<26 pixels rather than trusting
the header dimensions for its allocation.
*/
package dg5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
)

const (
	magic           = "DG"
	headerBytes     = 12
	paletteEntries  = palette.Size
	paletteBytes    = paletteEntries * 3
	dataOffset      = headerBytes + paletteBytes
	pixelsPerColumn = 8
	bitsPerPixel    = 5
	maxPixels       = 1 << 26
)

var (
	// ErrFormat is returned when the input is not a DG5 file
	ErrFormat = errors.New("dg5: invalid format")
	// ErrNotEnough is returned when the header or palette is truncated
	ErrNotEnough = errors.New("dg5: not enough image data")
	// ErrTooLarge is returned when encoding an image wider or taller than
	// 65535 pixels, or when decoding an image of more than 1<<26 pixels
	ErrTooLarge = errors.New("dg5: image is too large")
	// ErrBadPalette is returned when encoding with a palette that does not
	// have exactly 32 entries
	ErrBadPalette = errors.New("dg5: palette must have 32 entries")
)

// Header is the fixed size header at the start of every DG5 file. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type Header struct {
	Width  uint16
	Height uint16
	Mode   palette.Mode
	Dither dither.Mode
	// Length is the size of the pixel block. It is informational only
	// and is not checked when decoding.
	Length uint32
}

type rawHeader struct {
	Magic  [2]byte
	Width  uint16
	Height uint16
	Mode   uint8
	Dither uint8
	Length uint32
}

func columns(width int) int {
	return (width + pixelsPerColumn - 1) / pixelsPerColumn
}

// pixelBytes returns the size of the pixel block for the given dimensions
func pixelBytes(width, height int) uint32 {
	return uint32(columns(width) * height * bitsPerPixel)
}

// MarshalBinary encodes the header into binary form and returns the result
func (h *Header) MarshalBinary() ([]byte, error) {
	raw := rawHeader{
		Width:  h.Width,
		Height: h.Height,
		Mode:   uint8(h.Mode),
		Dither: uint8(h.Dither),
		Length: h.Length,
	}
	copy(raw.Magic[:], magic)

	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the header from binary form
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < headerBytes {
		return ErrNotEnough
	}

	var raw rawHeader
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &raw); err != nil {
		return err
	}
	if string(raw.Magic[:]) != magic {
		return ErrFormat
	}

	*h = Header{
		Width:  raw.Width,
		Height: raw.Height,
		Mode:   palette.Mode(raw.Mode),
		Dither: dither.Mode(raw.Dither),
		Length: raw.Length,
	}
	return nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
