package palette

import (
	"image/color"
	"math/bits"
	"sort"

	"github.com/bodgit/posterize/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

// Number of times the bucket is halved, log2(Size)
var maxDepth = bits.Len(uint(Size)) - 1

// cutter splits a private copy of the image pixels into buckets and
// collects one color per leaf bucket, left to right
type cutter struct {
	pixels []pixel.Color
	result Palette
}

func newCutter(m *pixel.Image) *cutter {
	c := &cutter{
		pixels: make([]pixel.Color, m.Width*m.Height),
		result: make(Palette, 0, Size),
	}
	copy(c.pixels, m.Pix)
	return c
}

func channelRange(bucket []pixel.Color, channel func(pixel.Color) uint8) int {
	lo, hi := uint8(0xff), uint8(0)
	for _, c := range bucket {
		v := channel(c)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return int(hi) - int(lo)
}

func (c *cutter) cut(start, end, depth int) {
	bucket := c.pixels[start:end]

	if depth == 0 || end-start <= 1 {
		var r, g, b uint64
		for _, p := range bucket {
			r += uint64(p.R())
			g += uint64(p.G())
			b += uint64(p.B())
		}
		n := uint64(len(bucket))
		c.result = append(c.result, pixel.Pack(uint8(r/n), uint8(g/n), uint8(b/n), 0xff))
		return
	}

	rRange := channelRange(bucket, pixel.Color.R)
	gRange := channelRange(bucket, pixel.Color.G)
	bRange := channelRange(bucket, pixel.Color.B)

	// Red wins ties with green and blue, green wins ties with blue
	var channel func(pixel.Color) uint8
	switch {
	case rRange >= gRange && rRange >= bRange:
		channel = pixel.Color.R
	case gRange >= bRange:
		channel = pixel.Color.G
	default:
		channel = pixel.Color.B
	}

	sort.SliceStable(bucket, func(i, j int) bool {
		return channel(bucket[i]) < channel(bucket[j])
	})

	mid := (start + end) / 2
	c.cut(start, mid, depth-1)
	c.cut(mid, end, depth-1)
}

func medianCut(m *pixel.Image) Palette {
	c := newCutter(m)
	c.cut(0, len(c.pixels), maxDepth)
	return pad(c.result)
}

// Luminance returns the perceived brightness of c using the Rec. 601 weights.
// Each step is rounded to single precision.
func Luminance(c pixel.Color) float32 {
	r := float32(0.299 * float32(c.R()))
	g := float32(0.587 * float32(c.G()))
	b := float32(0.114 * float32(c.B()))
	return float32(r+g) + b
}

func (c *cutter) cutMono(start, end, depth int) {
	bucket := c.pixels[start:end]

	if depth == 0 || end-start <= 1 {
		var sum float32
		for _, p := range bucket {
			sum += Luminance(p)
		}
		l := uint8(sum / float32(len(bucket)))
		c.result = append(c.result, pixel.Pack(l, l, l, 0xff))
		return
	}

	sort.SliceStable(bucket, func(i, j int) bool {
		return Luminance(bucket[i]) < Luminance(bucket[j])
	})

	mid := (start + end) / 2
	c.cutMono(start, mid, depth-1)
	c.cutMono(mid, end, depth-1)
}

func medianCutMono(m *pixel.Image) Palette {
	c := newCutter(m)
	c.cutMono(0, len(c.pixels), maxDepth)
	return pad(c.result)
}

// adaptive uses a population weighted median cut
func adaptive(m *pixel.Image) Palette {
	q := quantize.MedianCutQuantizer{}

	p := make(Palette, 0, Size)
	for _, c := range q.Quantize(make(color.Palette, 0, Size), m) {
		pc := pixel.Model.Convert(c).(pixel.Color)
		r, g, b, _ := pc.Unpack()
		p = append(p, pixel.Pack(r, g, b, 0xff))
	}
	switch {
	case len(p) == 0:
		return medianCut(m)
	case len(p) > Size:
		p = p[:Size]
	}
	return pad(p)
}
