package dg5

import (
	"bufio"
	"image"
	"io"
	"math"

	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// Options are the encoding parameters.
type Options struct {
	// Mode is recorded in the header and, when Palette is nil, used to
	// generate the palette block from the image being encoded.
	Mode palette.Mode
	// Dither is recorded in the header.
	Dither dither.Mode
	// Palette is written to the palette block. It must have 32 entries.
	Palette palette.Palette
}

type encoder struct {
	w *bufio.Writer
	m *pixel.Image
}

func (e *encoder) writeHeader(h *Header) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func (e *encoder) writePalette(p palette.Palette) error {
	var tmp [paletteBytes]byte
	for i, c := range p {
		// Only the low nibble of blue is kept
		tmp[i*3+0] = c.R()
		tmp[i*3+1] = c.G()
		tmp[i*3+2] = c.B() & 0x0f
	}
	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) writePixels() error {
	var codes [pixelsPerColumn]uint8
	var planes [bitsPerPixel]byte

	for col := 0; col < columns(e.m.Width); col++ {
		for y := 0; y < e.m.Height; y++ {
			for i := range codes {
				x := col*pixelsPerColumn + i
				if x < e.m.Width {
					codes[i] = toCode(e.m.Pix[x+y*e.m.Width])
				} else {
					codes[i] = 0
				}
			}

			transpose(&codes, &planes)

			if _, err := e.w.Write(planes[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode writes the Image m to w in DG5 format. A nil o generates a
// Posterized palette and records no dithering.
func Encode(w io.Writer, m image.Image, o *Options) error {
	pm, ok := m.(*pixel.Image)
	if !ok {
		pm = pixel.FromImage(m)
	}
	if pm.Empty() {
		return pixel.ErrEmptyImage
	}
	if pm.Width > math.MaxUint16 || pm.Height > math.MaxUint16 {
		return ErrTooLarge
	}

	var opts Options
	if o != nil {
		opts = *o
	}

	p := opts.Palette
	if p == nil {
		var err error
		if p, err = palette.Generate(pm, opts.Mode); err != nil {
			return err
		}
	}
	if len(p) != paletteEntries {
		return ErrBadPalette
	}

	e := encoder{w: bufio.NewWriter(w), m: pm}

	h := Header{
		Width:  uint16(pm.Width),
		Height: uint16(pm.Height),
		Mode:   opts.Mode,
		Dither: opts.Dither,
		Length: pixelBytes(pm.Width, pm.Height),
	}
	if err := e.writeHeader(&h); err != nil {
		return err
	}

	if err := e.writePalette(p); err != nil {
		return err
	}

	if err := e.writePixels(); err != nil {
		return err
	}

	return e.w.Flush()
}
