package tileset

import (
	"image"
	"image/color"
	"math/rand"
)

// Fallback checkerboard colors, loud enough to spot a broken mapping at a
// glance.
var (
	fallbackMagenta = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	fallbackBlack   = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// buildFallback synthesizes the sprite drawn for identifiers the tileset
// does not know: a magenta-and-black checkerboard at the tileset's tile
// size, stored alongside the sliced sprites.
func (t *Tileset) buildFallback(rng *rand.Rand) {
	w, h := t.Info.TileWidth, t.Info.TileHeight
	if w <= 0 || h <= 0 {
		w, h = 32, 32
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	half := w / 2
	if half == 0 {
		half = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := fallbackMagenta
			if (x/half+y/half)%2 == 1 {
				c = fallbackBlack
			}
			img.SetRGBA(x, y, c)
		}
	}

	handle := Handle(len(t.sprites))
	t.sprites = append(t.sprites, img)
	t.fbImage = img
	t.fallback = &Sprite{
		fg:  []weightedHandle{{Handle: handle, Weight: 1}},
		rng: rng,
	}
}
