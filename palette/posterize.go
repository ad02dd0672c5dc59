package palette

import "github.com/bodgit/posterize/pixel"

// posterized enumerates a 4x4x2 RGB lattice; red comes from bits 3-4 of the
// index, green from bits 1-2 and blue from bit 0
func posterized() Palette {
	p := make(Palette, Size)
	for i := range p {
		r := (i >> 3 & 3) * 255 / 3
		g := (i >> 1 & 3) * 255 / 3
		b := (i & 1) * 255
		p[i] = pixel.Pack(uint8(r), uint8(g), uint8(b), 0xff)
	}
	return p
}

func posterizedMono() Palette {
	p := make(Palette, Size)
	for i := range p {
		l := uint8(i * 255 / (Size - 1))
		p[i] = pixel.Pack(l, l, l, 0xff)
	}
	return p
}
