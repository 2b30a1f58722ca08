package grid

import (
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/oracle"
)

// Render computes the slime chunks of seed over a W*H area whose corner is
// chunk (x, z). Rows are spread over workers goroutines, GOMAXPROCS if <= 0.
func Render(seed seedfinder.Seed, x, z, w, h int32, workers int) *Map {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	m := New(x, z, w, h)

	var g errgroup.Group
	g.SetLimit(workers)
	for dz := int32(0); dz < h; dz++ {
		g.Go(func() error {
			for dx := int32(0); dx < w; dx++ {
				c := Plain
				if oracle.IsSlimeChunk(seed, x+dx, z+dz) {
					c = Slime
				}
				m.Set(dx, dz, c)
			}
			return nil
		})
	}
	_ = g.Wait()
	return m
}

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	slimeChunkColor = color.RGBA{100, 255, 100, 255}
	unknownColor    = color.RGBA{64, 64, 64, 255}
)

// Image draws the map at scale pixels per chunk.
func (m *Map) Image(scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, int(m.W)*scale, int(m.H)*scale))
	for z := int32(0); z < m.H; z++ {
		for x := int32(0); x < m.W; x++ {
			c := backgroundColor
			switch m.Get(x, z) {
			case Slime:
				c = slimeChunkColor
			case Unknown:
				c = unknownColor
			}
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					img.SetRGBA(int(x)*scale+px, int(z)*scale+py, c)
				}
			}
		}
	}
	return img
}
