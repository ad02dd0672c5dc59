package dither

import (
	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// bayerMatrix is indexed [y%4][x%4]
var bayerMatrix = [4][4]float64{
	{6.0 / 16, 14.0 / 16, 8.0 / 16, 16.0 / 16},
	{10.0 / 16, 2.0 / 16, 12.0 / 16, 4.0 / 16},
	{7.0 / 16, 15.0 / 16, 5.0 / 16, 13.0 / 16},
	{11.0 / 16, 3.0 / 16, 9.0 / 16, 1.0 / 16},
}

// bayerOffset is the amount added to each channel of the pixel at (x, y),
// truncated towards zero
func bayerOffset(x, y int, amplitude float64) int {
	return int((bayerMatrix[y%4][x%4] - 0.5) * amplitude)
}

func bayer(m *pixel.Image, p palette.Palette, amplitude float64) *pixel.Image {
	dst := pixel.New(m.Width, m.Height)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := x + y*m.Width
			d := bayerOffset(x, y, amplitude)

			r, g, b, a := m.Pix[i].Unpack()
			c := pixel.Pack(clamp(int(r)+d), clamp(int(g)+d), clamp(int(b)+d), a)

			dst.Pix[i] = p[p.Index(c)]
		}
	}

	return dst
}
