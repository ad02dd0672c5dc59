package palette

import (
	"math/rand"
	"testing"

	"github.com/bodgit/posterize/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allModes = []Mode{Posterized, PosterizedMono, MedianCut, MedianCutMono, Adaptive}

func randomImage(width, height int, seed int64) *pixel.Image {
	r := rand.New(rand.NewSource(seed))
	m := pixel.New(width, height)
	for i := range m.Pix {
		m.Pix[i] = pixel.Color(r.Uint32())
	}
	return m
}

func uniformImage(width, height int, c pixel.Color) *pixel.Image {
	m := pixel.New(width, height)
	for i := range m.Pix {
		m.Pix[i] = c
	}
	return m
}

func gray(l uint8) pixel.Color {
	return pixel.Pack(l, l, l, 0xff)
}

func TestGenerateSizeAndAlpha(t *testing.T) {
	images := map[string]*pixel.Image{
		"1x1":     randomImage(1, 1, 1),
		"3x1":     randomImage(3, 1, 2),
		"31x1":    randomImage(31, 1, 3),
		"16x16":   randomImage(16, 16, 4),
		"100x37":  randomImage(100, 37, 5),
		"uniform": uniformImage(8, 8, pixel.Pack(10, 20, 30, 0xff)),
	}

	for name, m := range images {
		for _, mode := range allModes {
			t.Run(name+"/"+mode.String(), func(t *testing.T) {
				p, err := Generate(m, mode)
				require.Nil(t, err)
				require.Len(t, p, Size)
				for _, c := range p {
					assert.Equal(t, uint8(0xff), c.A())
				}
			})
		}
	}
}

func TestGenerateDoesNotModifyImage(t *testing.T) {
	m := randomImage(20, 20, 42)
	dup := m.Clone()

	for _, mode := range allModes {
		_, err := Generate(m, mode)
		require.Nil(t, err)
		assert.Equal(t, dup.Pix, m.Pix)
	}
}

func TestGenerateEmptyImage(t *testing.T) {
	for _, mode := range allModes {
		_, err := Generate(pixel.New(0, 0), mode)
		assert.Equal(t, pixel.ErrEmptyImage, err)

		_, err = Generate(nil, mode)
		assert.Equal(t, pixel.ErrEmptyImage, err)
	}
}

func TestGenerateUnknownMode(t *testing.T) {
	_, err := Generate(pixel.New(1, 1), Mode(42))
	assert.NotNil(t, err)
}

func TestPosterized(t *testing.T) {
	p, err := Generate(pixel.New(1, 1), Posterized)
	require.Nil(t, err)

	assert.Equal(t, pixel.Pack(0, 0, 0, 0xff), p[0])
	assert.Equal(t, pixel.Pack(0, 0, 0xff, 0xff), p[1])
	assert.Equal(t, pixel.Pack(0, 85, 0, 0xff), p[2])
	assert.Equal(t, pixel.Pack(85, 170, 0, 0xff), p[12])
	assert.Equal(t, pixel.Pack(0xff, 85, 0xff, 0xff), p[27])
	assert.Equal(t, pixel.Pack(0xff, 0xff, 0xff, 0xff), p[31])

	// Every entry is unique
	seen := make(map[pixel.Color]struct{})
	for _, c := range p {
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, Size)
}

func TestPosterizedMono(t *testing.T) {
	p, err := Generate(pixel.New(1, 1), PosterizedMono)
	require.Nil(t, err)

	assert.Equal(t, gray(0), p[0])
	assert.Equal(t, gray(8), p[1])
	assert.Equal(t, gray(82), p[10])
	assert.Equal(t, gray(90), p[11])
	assert.Equal(t, gray(0xff), p[31])
}

func TestMedianCutTwoPixels(t *testing.T) {
	m := pixel.New(2, 1)
	m.Pix[0] = pixel.Pack(0xff, 0xff, 0xff, 0xff)
	m.Pix[1] = pixel.Pack(0, 0, 0, 0xff)

	p, err := Generate(m, MedianCut)
	require.Nil(t, err)
	require.Len(t, p, Size)

	// Split on red, sorted ascending, then padded by repetition
	for i, c := range p {
		if i%2 == 0 {
			assert.Equal(t, gray(0), c)
		} else {
			assert.Equal(t, gray(0xff), c)
		}
	}
}

func TestMedianCutGradient(t *testing.T) {
	m := pixel.New(64, 1)
	for i := range m.Pix {
		m.Pix[63-i] = gray(uint8(i * 4))
	}

	p, err := Generate(m, MedianCut)
	require.Nil(t, err)

	// 64 pixels make 32 buckets of two, each averaging 8k and 8k+4
	for k, c := range p {
		assert.Equal(t, gray(uint8(8*k+2)), c)
	}
}

func TestMedianCutChannelTieBreak(t *testing.T) {
	tables := []struct {
		name  string
		pix   []pixel.Color
		first pixel.Color
	}{
		{
			"red beats green and blue",
			[]pixel.Color{pixel.Pack(10, 0, 10, 0xff), pixel.Pack(0, 10, 0, 0xff)},
			pixel.Pack(0, 10, 0, 0xff),
		},
		{
			"green beats blue",
			[]pixel.Color{pixel.Pack(0, 10, 0, 0xff), pixel.Pack(0, 0, 10, 0xff)},
			pixel.Pack(0, 0, 10, 0xff),
		},
		{
			"blue when widest",
			[]pixel.Color{pixel.Pack(0, 0, 20, 0xff), pixel.Pack(5, 5, 0, 0xff)},
			pixel.Pack(5, 5, 0, 0xff),
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := &pixel.Image{Width: len(table.pix), Height: 1, Pix: table.pix}
			p, err := Generate(m, MedianCut)
			require.Nil(t, err)
			assert.Equal(t, table.first, p[0])
		})
	}
}

func TestMedianCutMono(t *testing.T) {
	m := pixel.New(2, 1)
	m.Pix[0] = pixel.Pack(0, 0xff, 0, 0xff)
	m.Pix[1] = pixel.Pack(0xff, 0, 0, 0xff)

	p, err := Generate(m, MedianCutMono)
	require.Nil(t, err)
	assert.Equal(t, gray(76), p[0])
	assert.Equal(t, gray(149), p[1])
	assert.Equal(t, gray(76), p[2])
}

func TestMedianCutMonoSinglePrecision(t *testing.T) {
	tables := []struct {
		in, want uint8
	}{
		{1, 1},
		{2, 2},
		{37, 36},
		{128, 128},
		{169, 169},
		{253, 252},
	}

	for _, table := range tables {
		p, err := Generate(uniformImage(1, 1, gray(table.in)), MedianCutMono)
		require.Nil(t, err)
		assert.Equal(t, gray(table.want), p[0], "gray %d", table.in)
	}
}

func TestNearest(t *testing.T) {
	p := Palette{
		pixel.Pack(0, 0, 0, 0xff),
		pixel.Pack(10, 0, 0, 0x80),
		pixel.Pack(0, 10, 0, 0xff),
	}

	tables := []struct {
		name string
		c    pixel.Color
		want pixel.Color
	}{
		{"exact", pixel.Pack(0, 10, 0, 0), p[2]},
		{"alpha ignored", pixel.Pack(9, 0, 0, 0xff), p[1]},
		{"tie goes to first", pixel.Pack(5, 5, 0, 0xff), p[0]},
		{"tie between later entries", pixel.Pack(10, 10, 0, 0xff), p[1]},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			c, err := Nearest(table.c, p)
			require.Nil(t, err)
			assert.Equal(t, table.want, c)
		})
	}

	_, err := Nearest(0, nil)
	assert.Equal(t, ErrEmptyPalette, err)
	assert.Equal(t, -1, Palette{}.Index(0))
}

func TestNearestIsMinimal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	src := randomImage(40, 40, 8)

	for _, mode := range allModes {
		p, err := Generate(src, mode)
		require.Nil(t, err)

		for i := 0; i < 500; i++ {
			c := pixel.Color(r.Uint32())
			got, err := Nearest(c, p)
			require.Nil(t, err)
			assert.Contains(t, p, got)
			for _, v := range p {
				assert.False(t, distance(c, v) < distance(c, got))
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range allModes {
		m, err := ParseMode(mode.String())
		require.Nil(t, err)
		assert.Equal(t, mode, m)
	}

	_, err := ParseMode("octree")
	assert.NotNil(t, err)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
