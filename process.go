package posterize

import (
	"bytes"
	"image"
	"io"

	"github.com/bodgit/posterize/dg5"
	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// Process generates a palette for m and maps m onto it, returning the mapped
// image and the palette.
func Process(m image.Image, o Options) (*pixel.Image, palette.Palette, error) {
	pm, ok := m.(*pixel.Image)
	if !ok {
		pm = pixel.FromImage(m)
	}

	p, err := palette.Generate(pm, o.Mode)
	if err != nil {
		return nil, nil, err
	}

	dst, err := dither.Apply(pm, p, o.Dither, nil)
	if err != nil {
		return nil, nil, err
	}

	return dst, p, nil
}

// Encode processes m and writes the result to w in DG5 format.
func Encode(w io.Writer, m image.Image, o Options) error {
	dst, p, err := Process(m, o)
	if err != nil {
		return err
	}

	return dg5.Encode(w, dst, &dg5.Options{
		Mode:    o.Mode,
		Dither:  o.Dither,
		Palette: p,
	})
}

func encodeBytes(m image.Image, o Options) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, m, o); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
