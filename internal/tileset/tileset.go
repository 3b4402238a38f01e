// Package tileset loads legacy tilesets (tileset.txt plus a JSON config and
// sibling atlas PNGs) and selects the sprite variant for a cell: plain
// sprites for simple tiles, neighbor-mask driven subtiles for multitiles.
package tileset

import (
	"image"
	"math/rand"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
)

// Handle identifies one sliced sprite in a tileset's sprite store.
type Handle int

// Info is the tile_info header of a tileset config.
type Info struct {
	Pixelscale int `json:"pixelscale"`
	TileWidth  int `json:"width"`
	TileHeight int `json:"height"`
}

// weightedHandle is one fg/bg alternative.
type weightedHandle struct {
	Handle Handle
	Weight int
}

// Sprite is a drawable sprite: weighted foreground and background
// alternatives plus the pixel offset of its atlas group. Animated sprites
// expect the renderer to re-pick on its own cadence.
type Sprite struct {
	fg []weightedHandle
	bg []weightedHandle

	OffsetX int
	OffsetY int

	animated bool
	rng      *rand.Rand
}

// Fg picks a foreground handle. Multi-sprite foregrounds select by weight
// per call.
func (s *Sprite) Fg() (Handle, bool) {
	return s.pick(s.fg)
}

// Bg picks a background handle.
func (s *Sprite) Bg() (Handle, bool) {
	return s.pick(s.bg)
}

// IsAnimated reports whether the sprite wants periodic reselection.
func (s *Sprite) IsAnimated() bool {
	return s.animated
}

func (s *Sprite) pick(alts []weightedHandle) (Handle, bool) {
	switch len(alts) {
	case 0:
		return 0, false
	case 1:
		return alts[0].Handle, true
	}
	weights := make([]int, len(alts))
	for i, a := range alts {
		weights[i] = a.Weight
	}
	return alts[random.PickIndex(s.rng, weights)].Handle, true
}

// Subtile names the variant chosen for a multitile cell.
type Subtile int

const (
	SubtileSingle Subtile = iota
	SubtileCenter
	SubtileCornerNW
	SubtileCornerNE
	SubtileCornerSE
	SubtileCornerSW
	SubtileTConnectionN
	SubtileTConnectionE
	SubtileTConnectionS
	SubtileTConnectionW
	SubtileEdgeNS
	SubtileEdgeEW
	SubtileEndPieceN
	SubtileEndPieceE
	SubtileEndPieceS
	SubtileEndPieceW
	SubtileUnconnected
)

// String returns the string representation of a Subtile
func (s Subtile) String() string {
	switch s {
	case SubtileSingle:
		return "single"
	case SubtileCenter:
		return "center"
	case SubtileCornerNW:
		return "corner_nw"
	case SubtileCornerNE:
		return "corner_ne"
	case SubtileCornerSE:
		return "corner_se"
	case SubtileCornerSW:
		return "corner_sw"
	case SubtileTConnectionN:
		return "t_connection_n"
	case SubtileTConnectionE:
		return "t_connection_e"
	case SubtileTConnectionS:
		return "t_connection_s"
	case SubtileTConnectionW:
		return "t_connection_w"
	case SubtileEdgeNS:
		return "edge_ns"
	case SubtileEdgeEW:
		return "edge_ew"
	case SubtileEndPieceN:
		return "end_piece_n"
	case SubtileEndPieceE:
		return "end_piece_e"
	case SubtileEndPieceS:
		return "end_piece_s"
	case SubtileEndPieceW:
		return "end_piece_w"
	case SubtileUnconnected:
		return "unconnected"
	default:
		return "unknown"
	}
}

// Connection mask bits, one per cardinal neighbor with the same resolved
// identifier.
const (
	ConnectNorth uint8 = 1 << 3
	ConnectEast  uint8 = 1 << 2
	ConnectSouth uint8 = 1 << 1
	ConnectWest  uint8 = 1 << 0
)

// ConnectionMask packs the 4-neighborhood into a mask.
func ConnectionMask(north, east, south, west bool) uint8 {
	var mask uint8
	if north {
		mask |= ConnectNorth
	}
	if east {
		mask |= ConnectEast
	}
	if south {
		mask |= ConnectSouth
	}
	if west {
		mask |= ConnectWest
	}
	return mask
}

// MaskSubtile maps a connection mask to its multitile variant.
func MaskSubtile(mask uint8) Subtile {
	switch mask {
	case ConnectNorth | ConnectEast | ConnectSouth | ConnectWest:
		return SubtileCenter
	case ConnectNorth | ConnectEast | ConnectSouth:
		return SubtileTConnectionW
	case ConnectNorth | ConnectEast | ConnectWest:
		return SubtileTConnectionS
	case ConnectNorth | ConnectSouth | ConnectWest:
		return SubtileTConnectionE
	case ConnectEast | ConnectSouth | ConnectWest:
		return SubtileTConnectionN
	case ConnectNorth | ConnectEast:
		return SubtileCornerSW
	case ConnectNorth | ConnectWest:
		return SubtileCornerSE
	case ConnectEast | ConnectSouth:
		return SubtileCornerNW
	case ConnectSouth | ConnectWest:
		return SubtileCornerNE
	case ConnectNorth:
		return SubtileEndPieceS
	case ConnectEast:
		return SubtileEndPieceW
	case ConnectSouth:
		return SubtileEndPieceN
	case ConnectWest:
		return SubtileEndPieceE
	case ConnectEast | ConnectWest:
		return SubtileEdgeEW
	case ConnectNorth | ConnectSouth:
		return SubtileEdgeNS
	default:
		return SubtileUnconnected
	}
}

// VariantsKind tags a tile's sprite shape.
type VariantsKind int

const (
	VariantsSingle VariantsKind = iota
	VariantsMultitile
)

// SpriteVariants is the sprite table of one tile id: a plain sprite, or a
// multitile with one sprite per connection variant. Missing subtiles fall
// back to the base sprite.
type SpriteVariants struct {
	Kind VariantsKind

	Base *Sprite

	Center      *Sprite
	Corner      [4]*Sprite // NW, NE, SE, SW
	TConnection [4]*Sprite // N, E, S, W
	Edge        [2]*Sprite // NS, EW
	EndPiece    [4]*Sprite // N, E, S, W
	Unconnected *Sprite
}

// Select returns the sprite for a connection mask along with the chosen
// subtile. Plain tiles ignore the mask.
func (v *SpriteVariants) Select(mask uint8) (*Sprite, Subtile) {
	if v.Kind == VariantsSingle {
		return v.Base, SubtileSingle
	}

	sub := MaskSubtile(mask)
	s := v.subtileSprite(sub)
	if s == nil {
		s = v.Base
	}
	return s, sub
}

func (v *SpriteVariants) subtileSprite(sub Subtile) *Sprite {
	switch sub {
	case SubtileCenter:
		return v.Center
	case SubtileCornerNW:
		return v.Corner[0]
	case SubtileCornerNE:
		return v.Corner[1]
	case SubtileCornerSE:
		return v.Corner[2]
	case SubtileCornerSW:
		return v.Corner[3]
	case SubtileTConnectionN:
		return v.TConnection[0]
	case SubtileTConnectionE:
		return v.TConnection[1]
	case SubtileTConnectionS:
		return v.TConnection[2]
	case SubtileTConnectionW:
		return v.TConnection[3]
	case SubtileEdgeNS:
		return v.Edge[0]
	case SubtileEdgeEW:
		return v.Edge[1]
	case SubtileEndPieceN:
		return v.EndPiece[0]
	case SubtileEndPieceE:
		return v.EndPiece[1]
	case SubtileEndPieceS:
		return v.EndPiece[2]
	case SubtileEndPieceW:
		return v.EndPiece[3]
	case SubtileUnconnected:
		return v.Unconnected
	default:
		return v.Base
	}
}

// Tileset is a fully loaded legacy tileset: the sliced sprite store and the
// per-tile-id variant table. Loaded once per project-open and shared
// read-only afterwards.
type Tileset struct {
	Name       string
	ConfigFile string
	Info       Info

	sprites  []*image.RGBA
	variants map[cdda.TileID]*SpriteVariants
	fallback *Sprite
	fbImage  *image.RGBA
}

// Variants returns the sprite table of a tile id.
func (t *Tileset) Variants(id cdda.TileID) (*SpriteVariants, bool) {
	v, ok := t.variants[id]
	return v, ok
}

// SpriteImage returns the sliced bitmap behind a handle.
func (t *Tileset) SpriteImage(h Handle) (*image.RGBA, bool) {
	if h < 0 || int(h) >= len(t.sprites) {
		return nil, false
	}
	return t.sprites[int(h)], true
}

// Fallback returns the sprite drawn for identifiers the tileset does not
// know.
func (t *Tileset) Fallback() *Sprite {
	return t.fallback
}

// FallbackImage returns the synthesized fallback bitmap.
func (t *Tileset) FallbackImage() *image.RGBA {
	return t.fbImage
}

// SpriteCount reports how many sprites were sliced from the atlases.
func (t *Tileset) SpriteCount() int {
	return len(t.sprites)
}
