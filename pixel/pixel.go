/*
Package pixel implements the packed 32-bit RGBA color and the flat pixel
buffer shared by the palette, quantize, dither and dg5 packages.

A Color holds four 8-bit channels with red in the lowest byte, followed by
green, blue and alpha. An Image is a row-major buffer of exactly width by
height colors; the pixel at (x, y) is Pix[x+y*Width].
*/
package pixel

import (
	"errors"
	"image"
	"image/color"
)

var (
	// ErrEmptyImage is returned when an image has no pixels
	ErrEmptyImage = errors.New("pixel: zero-area image")
	// ErrShortBuffer is returned when a byte buffer does not hold
	// width*height RGBA8 pixels
	ErrShortBuffer = errors.New("pixel: buffer length does not match dimensions")
)

// Color is a non-premultiplied RGBA color packed as R|G<<8|B<<16|A<<24.
type Color uint32

// Pack returns the Color for the four channels.
func Pack(r, g, b, a uint8) Color {
	return Color(r) | Color(g)<<8 | Color(b)<<16 | Color(a)<<24
}

// Unpack returns the four channels of c.
func (c Color) Unpack() (r, g, b, a uint8) {
	return c.R(), c.G(), c.B(), c.A()
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// RGBA implements the color.Color interface.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

// Model converts any color.Color to a Color.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pack(n.R, n.G, n.B, n.A)
}

// Image is a flat RGBA pixel buffer. It implements image.Image with its
// top-left corner at (0, 0).
type Image struct {
	Width  int
	Height int
	Pix    []Color
}

// New returns a zeroed Image of the given dimensions.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
}

// FromRGBA builds an Image from a buffer of RGBA8 bytes, four per pixel.
func FromRGBA(width, height int, b []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(b) != width*height*4 {
		return nil, ErrShortBuffer
	}

	m := New(width, height)
	c := NewCursor(b)
	for i := range m.Pix {
		p, ok := c.Next()
		if !ok {
			return nil, ErrShortBuffer
		}
		m.Pix[i] = p
	}
	return m, nil
}

// FromImage converts any image.Image, translating its bounds so that the
// result starts at (0, 0).
func FromImage(m image.Image) *Image {
	if pm, ok := m.(*Image); ok {
		return pm.Clone()
	}

	b := m.Bounds()
	dst := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Pix[(x-b.Min.X)+(y-b.Min.Y)*dst.Width] = Model.Convert(m.At(x, y)).(Color)
		}
	}
	return dst
}

// Empty reports whether the image has no pixels.
func (m *Image) Empty() bool {
	return m == nil || m.Width <= 0 || m.Height <= 0 || len(m.Pix) < m.Width*m.Height
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	dup := New(m.Width, m.Height)
	copy(dup.Pix, m.Pix)
	return dup
}

// Bytes returns the pixels as RGBA8 bytes, four per pixel.
func (m *Image) Bytes() []byte {
	b := make([]byte, 0, len(m.Pix)*4)
	for _, c := range m.Pix {
		b = append(b, c.R(), c.G(), c.B(), c.A())
	}
	return b
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return Color(0)
	}
	return m.Pix[x+y*m.Width]
}
