package dither

import (
	"math"

	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// Diffusion weights in sixteenths for the unvisited neighbours
var diffusion = [...]struct {
	dx, dy int
	weight float64
}{
	{1, 0, 7.0 / 16},
	{-1, 1, 3.0 / 16},
	{0, 1, 5.0 / 16},
	{1, 1, 1.0 / 16},
}

// errorBuffer accumulates the quantization error pushed onto each pixel, one
// plane per channel
type errorBuffer struct {
	width, height int
	r, g, b       []float64
}

func newErrorBuffer(width, height int) *errorBuffer {
	n := width * height
	return &errorBuffer{
		width:  width,
		height: height,
		r:      make([]float64, n),
		g:      make([]float64, n),
		b:      make([]float64, n),
	}
}

// diffuse spreads the error at (x, y) onto its neighbours. Neighbours outside
// the image are skipped and the remaining weights are not renormalised.
func (e *errorBuffer) diffuse(x, y int, er, eg, eb float64) {
	for _, d := range diffusion {
		nx, ny := x+d.dx, y+d.dy
		if nx < 0 || nx >= e.width || ny >= e.height {
			continue
		}
		i := nx + ny*e.width
		e.r[i] += er * d.weight
		e.g[i] += eg * d.weight
		e.b[i] += eb * d.weight
	}
}

// apply walks m in raster order, mapping each pixel plus its accumulated
// error onto p and diffusing what is left over. Every neighbour lies after
// the current pixel so e holds the final error of each pixel once it has
// been visited.
func (e *errorBuffer) apply(m *pixel.Image, p palette.Palette) *pixel.Image {
	dst := pixel.New(m.Width, m.Height)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := x + y*m.Width

			r, g, b, a := m.Pix[i].Unpack()
			fr := clampf(float64(r) + e.r[i])
			fg := clampf(float64(g) + e.g[i])
			fb := clampf(float64(b) + e.b[i])

			c := pixel.Pack(uint8(math.Round(fr)), uint8(math.Round(fg)), uint8(math.Round(fb)), a)
			q := p[p.Index(c)]
			dst.Pix[i] = q

			e.diffuse(x, y, fr-float64(q.R()), fg-float64(q.G()), fb-float64(q.B()))
		}
	}

	return dst
}

func floydSteinberg(m *pixel.Image, p palette.Palette) *pixel.Image {
	return newErrorBuffer(m.Width, m.Height).apply(m, p)
}
