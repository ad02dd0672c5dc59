/*
Package quantize maps every pixel of an image onto its nearest palette entry.

Pixels are independent so rows are spread across a small pool of goroutines;
the result is identical to mapping the pixels one at a time.
*/
package quantize

import (
	"runtime"
	"sync"

	"github.com/bodgit/posterize/palette"
	"github.com/bodgit/posterize/pixel"
)

// Apply returns a new image where each pixel of m is replaced by the nearest
// entry in p, including that entry's alpha.
func Apply(m *pixel.Image, p palette.Palette) (*pixel.Image, error) {
	if m.Empty() {
		return nil, pixel.ErrEmptyImage
	}
	if len(p) == 0 {
		return nil, palette.ErrEmptyPalette
	}

	dst := pixel.New(m.Width, m.Height)

	rows := make(chan int)
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	if workers > m.Height {
		workers = m.Height
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				mapRow(dst, m, p, y)
			}
		}()
	}

	for y := 0; y < m.Height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return dst, nil
}

func mapRow(dst, src *pixel.Image, p palette.Palette, y int) {
	off := y * src.Width
	for x := 0; x < src.Width; x++ {
		dst.Pix[off+x] = p[p.Index(src.Pix[off+x])]
	}
}
