package dg5

import (
	"image"
	"io"

	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// File is the full content of a DG5 file.
type File struct {
	Header Header
	// Palette is the stored palette block. The blue channel only keeps
	// its low nibble and the palette is not used to rebuild the pixels.
	Palette palette.Palette
	Image   *pixel.Image
}

type decoder struct {
	r io.Reader

	header  Header
	palette palette.Palette
	image   *pixel.Image

	// Enough to hold the palette block, which is larger than the header
	tmp [paletteBytes]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:headerBytes]); err != nil {
		return err
	}
	return d.header.UnmarshalBinary(d.tmp[:headerBytes])
}

func (d *decoder) readPalette() error {
	if err := readFull(d.r, d.tmp[:paletteBytes]); err != nil {
		return err
	}

	d.palette = make(palette.Palette, paletteEntries)
	for i := range d.palette {
		b := d.tmp[i*3 : i*3+3]
		d.palette[i] = pixel.Pack(b[0], b[1], b[2], 0xff)
	}
	return nil
}

// readPixels stops quietly at the end of the input, leaving any remaining
// pixels zeroed
func (d *decoder) readPixels() error {
	width, height := int(d.header.Width), int(d.header.Height)
	if width*height > maxPixels {
		return ErrTooLarge
	}
	d.image = pixel.New(width, height)

	var planes [bitsPerPixel]byte
	var codes [pixelsPerColumn]uint8

	for col := 0; col < columns(width); col++ {
		for y := 0; y < height; y++ {
			if err := readFull(d.r, planes[:]); err != nil {
				if err == io.ErrUnexpectedEOF {
					return nil
				}
				return err
			}

			untranspose(&planes, &codes)

			for i, code := range codes {
				x := col*pixelsPerColumn + i
				if x < width {
					d.image.Pix[x+y*width] = fromCode(code)
				}
			}
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if configOnly {
		return nil
	}

	if err := d.readPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	return d.readPixels()
}

// ReadFile reads the header, palette block and pixels of a DG5 file from r.
func ReadFile(r io.Reader) (*File, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &File{
		Header:  d.header,
		Palette: d.palette,
		Image:   d.image,
	}, nil
}

// Decode reads a DG5 image from r and returns it as an image.Image. The
// concrete type is *pixel.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a DG5 image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: pixel.Model,
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}

func init() {
	image.RegisterFormat("dg5", magic, Decode, DecodeConfig)
}
