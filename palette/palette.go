/*
Package palette generates the fixed 32 color palettes used to reduce an
image and finds the nearest palette entry for a color.

Distance is the squared Euclidean distance over the red, green and blue
channels; alpha is ignored. When several entries are equally close the first
one in palette order wins.
*/
package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bodgit/posterize/pixel"
)

// Size is the number of entries in every generated palette.
const Size = 32

// ErrEmptyPalette is returned when searching a palette with no entries
var ErrEmptyPalette = errors.New("palette: empty palette")

// Palette is an ordered list of colors.
type Palette []pixel.Color

// Mode selects how a palette is generated.
type Mode uint8

// Palette generation modes. The values are stored in DG5 headers.
const (
	Posterized Mode = iota
	PosterizedMono
	MedianCut
	MedianCutMono
	Adaptive
)

var modeNames = [...]string{
	Posterized:     "posterized",
	PosterizedMono: "posterized-mono",
	MedianCut:      "median-cut",
	MedianCutMono:  "median-cut-mono",
	Adaptive:       "adaptive",
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
	return 0, fmt.Errorf("palette: unknown mode %q", s)
}

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

func distance(c1, c2 pixel.Color) int {
	return sqDiff(c1.R(), c2.R()) + sqDiff(c1.G(), c2.G()) + sqDiff(c1.B(), c2.B())
}

// Index returns the index of the entry nearest to c, or -1 if p is empty.
func (p Palette) Index(c pixel.Color) int {
	ret, bestSum := -1, 0
	for i, v := range p {
		sum := distance(c, v)
		if ret < 0 || sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// Nearest returns the entry of p nearest to c.
func Nearest(c pixel.Color, p Palette) (pixel.Color, error) {
	i := p.Index(c)
	if i < 0 {
		return 0, ErrEmptyPalette
	}
	return p[i], nil
}

// Generate returns a Size entry palette for m using the given mode. Every
// entry is opaque.
func Generate(m *pixel.Image, mode Mode) (Palette, error) {
	if m.Empty() {
		return nil, pixel.ErrEmptyImage
	}

	switch mode {
	case Posterized:
		return posterized(), nil
	case PosterizedMono:
		return posterizedMono(), nil
	case MedianCut:
		return medianCut(m), nil
	case MedianCutMono:
		return medianCutMono(m), nil
	case Adaptive:
		return adaptive(m), nil
	default:
		return nil, fmt.Errorf("palette: unknown mode %d", mode)
	}
}

// pad repeats the existing entries in order until the palette is full
func pad(p Palette) Palette {
	for i := 0; len(p) < Size && len(p) > 0; i++ {
		p = append(p, p[i])
	}
	return p
}
