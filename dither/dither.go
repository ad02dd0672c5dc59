/*
Package dither maps an image onto a palette after perturbing the pixels with
either an ordered 4x4 Bayer threshold or Floyd-Steinberg error diffusion.

Both methods choose exactly one palette entry per pixel and never modify the
source image or the palette.
*/
package dither

import (
	"fmt"
	"strings"

	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
	"github.com/bodgit/posterize/quantize"
)

// Mode selects the dithering method.
type Mode uint8

// Dithering modes. The values are stored in DG5 headers.
const (
	None Mode = iota
	Bayer
	FloydSteinberg
)

var modeNames = [...]string{
	None:           "none",
	Bayer:          "bayer",
	FloydSteinberg: "floyd-steinberg",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode returns the Mode with the given name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("dither: unknown mode %q", s)
}

// DefaultAmplitude scales the Bayer threshold to the full channel range.
const DefaultAmplitude = 255

// Options are the dithering parameters.
type Options struct {
	// Amplitude scales the Bayer threshold before it is added to each
	// channel. Zero means DefaultAmplitude.
	Amplitude float64
}

func (o *Options) amplitude() float64 {
	if o == nil || o.Amplitude == 0 {
		return DefaultAmplitude
	}
	return o.Amplitude
}

// Apply maps m onto p using the given mode. A nil o uses the defaults.
func Apply(m *pixel.Image, p palette.Palette, mode Mode, o *Options) (*pixel.Image, error) {
	if m.Empty() {
		return nil, pixel.ErrEmptyImage
	}
	if len(p) == 0 {
		return nil, palette.ErrEmptyPalette
	}

	switch mode {
	case None:
		return quantize.Apply(m, p)
	case Bayer:
		return bayer(m, p, o.amplitude()), nil
	case FloydSteinberg:
		return floydSteinberg(m, p), nil
	default:
		return nil, fmt.Errorf("dither: unknown mode %d", mode)
	}
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}

func clampf(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return v
	}
}
