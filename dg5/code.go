package dg5

import "github.com/bodgit/posterize/pixel"

// toCode rounds each channel onto 0-3 for red and green and 0-1 for blue
func toCode(c pixel.Color) uint8 {
	r := (uint(c.R())*3 + 127) / 255
	g := (uint(c.G())*3 + 127) / 255
	b := (uint(c.B()) + 127) / 255
	return uint8(r<<3 | g<<1 | b)
}

func fromCode(code uint8) pixel.Color {
	return pixel.Pack(
		(code>>3&3)*0x55,
		(code>>1&3)*0x55,
		(code&1)*0xff,
		0xff,
	)
}

// transpose turns eight 5-bit codes into five bit planes
func transpose(codes *[pixelsPerColumn]uint8, planes *[bitsPerPixel]byte) {
	for bit := range planes {
		var v byte
		for i, code := range codes {
			if code&(1<<uint(bit)) != 0 {
				v |= 1 << uint(i)
			}
		}
		planes[bit] = v
	}
}

// untranspose reverses transpose
func untranspose(planes *[bitsPerPixel]byte, codes *[pixelsPerColumn]uint8) {
	for i := range codes {
		var code uint8
		for bit, v := range planes {
			if v&(1<<uint(i)) != 0 {
				code |= 1 << uint(bit)
			}
		}
		codes[i] = code
	}
}
