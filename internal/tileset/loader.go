package tileset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
)

// InfoFileName is the plain-text metadata file at a tileset's root.
const InfoFileName = "tileset.txt"

// ErrInvalid means a tileset directory or its config could not be parsed.
var ErrInvalid = errors.New("invalid tileset")

// idList is a descriptor id: a single string or a list of them.
type idList []string

func (l *idList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = idList{s}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// spriteIndexes is a fg/bg field: a single numeric sprite index, a list of
// them, or a weighted list.
type spriteIndexes []weightedIndex

type weightedIndex struct {
	Sprite int
	Weight int
}

func (s *spriteIndexes) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = spriteIndexes{{Sprite: n, Weight: 1}}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sprite index is neither a number nor a list: %s", data)
	}

	out := make(spriteIndexes, 0, len(raw))
	for _, entry := range raw {
		var idx int
		if err := json.Unmarshal(entry, &idx); err == nil {
			out = append(out, weightedIndex{Sprite: idx, Weight: 1})
			continue
		}
		var w struct {
			Sprite int `json:"sprite"`
			Weight int `json:"weight"`
		}
		if err := json.Unmarshal(entry, &w); err != nil {
			return fmt.Errorf("weighted sprite entry: %s", entry)
		}
		out = append(out, weightedIndex{Sprite: w.Sprite, Weight: w.Weight})
	}
	*s = out
	return nil
}

// rawDescriptor is one tile entry of a tiles-new group. Subtiles reuse the
// same shape with the id carrying the subtile role.
type rawDescriptor struct {
	ID              idList          `json:"id"`
	Fg              spriteIndexes   `json:"fg"`
	Bg              spriteIndexes   `json:"bg"`
	Rotates         bool            `json:"rotates"`
	Animated        bool            `json:"animated"`
	Multitile       bool            `json:"multitile"`
	AdditionalTiles []rawDescriptor `json:"additional_tiles"`
}

type rawGroup struct {
	File          string          `json:"file"`
	SpriteOffsetX int             `json:"sprite_offset_x"`
	SpriteOffsetY int             `json:"sprite_offset_y"`
	Tiles         []rawDescriptor `json:"tiles"`
}

type rawConfig struct {
	TileInfo []Info     `json:"tile_info"`
	TilesNew []rawGroup `json:"tiles-new"`
}

// Load reads a legacy tileset from a directory: tileset.txt names the
// config, the config names the atlases, the atlases are sliced row-major
// into the sprite store and every descriptor becomes a variant table entry.
func Load(dir string, rng *rand.Rand) (*Tileset, error) {
	name, configFile, err := readInfoFile(filepath.Join(dir, InfoFileName))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		return nil, fmt.Errorf("tileset config %s: %w", configFile, err)
	}

	var config rawConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", ErrInvalid, configFile, err)
	}
	if len(config.TileInfo) == 0 {
		return nil, fmt.Errorf("%w: config %s has no tile_info", ErrInvalid, configFile)
	}

	t := &Tileset{
		Name:       name,
		ConfigFile: configFile,
		Info:       config.TileInfo[0],
		variants:   make(map[cdda.TileID]*SpriteVariants),
	}

	for _, group := range config.TilesNew {
		if err := t.loadGroup(dir, group, rng); err != nil {
			return nil, err
		}
	}

	t.buildFallback(rng)

	logger.Info("loaded tileset",
		"name", t.Name, "sprites", len(t.sprites), "tiles", len(t.variants))
	return t, nil
}

// readInfoFile parses tileset.txt: line 0 carries the display name, line 2
// the config filename. Every other line is ignored.
func readInfoFile(path string) (name, configFile string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("tileset info: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		switch line {
		case 0:
			name = strings.TrimSpace(strings.TrimPrefix(text, "NAME:"))
		case 2:
			configFile = strings.TrimSpace(strings.TrimPrefix(text, "JSON:"))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("tileset info: %w", err)
	}
	if configFile == "" {
		return "", "", fmt.Errorf("%w: %s names no config file", ErrInvalid, path)
	}
	return name, configFile, nil
}

// loadGroup slices one atlas and registers its descriptors. Sprite indices
// are global across groups in declared order, so each group's sprites are
// appended to the shared store.
func (t *Tileset) loadGroup(dir string, group rawGroup, rng *rand.Rand) error {
	f, err := os.Open(filepath.Join(dir, group.File))
	if err != nil {
		return fmt.Errorf("atlas %s: %w", group.File, err)
	}
	defer f.Close()

	atlas, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: atlas %s: %v", ErrInvalid, group.File, err)
	}

	if err := t.sliceAtlas(atlas, group.File); err != nil {
		return err
	}

	for _, desc := range group.Tiles {
		variants := t.buildVariants(desc, group, rng)
		for _, id := range desc.ID {
			t.variants[cdda.TileID(id)] = variants
		}
	}
	return nil
}

// sliceAtlas cuts an atlas into tile-sized sprites, row-major from the
// top-left.
func (t *Tileset) sliceAtlas(atlas image.Image, file string) error {
	bounds := atlas.Bounds()
	tw, th := t.Info.TileWidth, t.Info.TileHeight
	if tw <= 0 || th <= 0 {
		return fmt.Errorf("%w: tile_info has size %dx%d", ErrInvalid, tw, th)
	}

	cols := bounds.Dx() / tw
	rows := bounds.Dy() / th
	if cols == 0 || rows == 0 {
		return fmt.Errorf("%w: atlas %s is smaller than one tile", ErrInvalid, file)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sprite := image.NewRGBA(image.Rect(0, 0, tw, th))
			src := image.Pt(bounds.Min.X+col*tw, bounds.Min.Y+row*th)
			draw.Draw(sprite, sprite.Bounds(), atlas, src, draw.Src)
			t.sprites = append(t.sprites, sprite)
		}
	}
	return nil
}

// buildVariants turns a descriptor into its sprite table.
func (t *Tileset) buildVariants(desc rawDescriptor, group rawGroup, rng *rand.Rand) *SpriteVariants {
	base := t.buildSprite(desc.Fg, desc.Bg, desc, group, rng)
	v := &SpriteVariants{Kind: VariantsSingle, Base: base}
	if !desc.Multitile {
		return v
	}

	v.Kind = VariantsMultitile
	for _, sub := range desc.AdditionalTiles {
		for _, role := range sub.ID {
			t.assignSubtiles(v, role, sub, desc, group, rng)
		}
	}
	return v
}

// assignSubtiles fills one subtile bucket. Corners are authored NW, NE,
// SE, SW; t_connection and end_piece are N, E, S, W; edges are NS, EW.
func (t *Tileset) assignSubtiles(v *SpriteVariants, role string, sub, parent rawDescriptor, group rawGroup, rng *rand.Rand) {
	switch role {
	case "center":
		v.Center = t.buildSprite(sub.Fg, sub.Bg, parent, group, rng)
	case "unconnected":
		v.Unconnected = t.buildSprite(sub.Fg, sub.Bg, parent, group, rng)
	case "corner":
		t.splitDirections(v.Corner[:], sub, parent, group, rng)
	case "t_connection":
		t.splitDirections(v.TConnection[:], sub, parent, group, rng)
	case "end_piece":
		t.splitDirections(v.EndPiece[:], sub, parent, group, rng)
	case "edge":
		t.splitDirections(v.Edge[:], sub, parent, group, rng)
	default:
		logger.Warning("unknown subtile role", "role", role)
	}
}

// splitDirections spreads a subtile's fg list across directional slots, one
// entry per slot in authored order. Descriptors with fewer entries leave
// the remaining slots on the base-sprite fallback.
func (t *Tileset) splitDirections(slots []*Sprite, sub, parent rawDescriptor, group rawGroup, rng *rand.Rand) {
	for i := range slots {
		if i >= len(sub.Fg) {
			return
		}
		fg := spriteIndexes{sub.Fg[i]}
		bg := sub.Bg
		if len(sub.Bg) == len(sub.Fg) {
			bg = spriteIndexes{sub.Bg[i]}
		}
		slots[i] = t.buildSprite(fg, bg, parent, group, rng)
	}
}

func (t *Tileset) buildSprite(fg, bg spriteIndexes, desc rawDescriptor, group rawGroup, rng *rand.Rand) *Sprite {
	return &Sprite{
		fg:       t.handles(fg),
		bg:       t.handles(bg),
		OffsetX:  group.SpriteOffsetX,
		OffsetY:  group.SpriteOffsetY,
		animated: desc.Animated,
		rng:      rng,
	}
}

// handles validates sprite indices against the store. Out-of-range indices
// are dropped with a warning.
func (t *Tileset) handles(indexes spriteIndexes) []weightedHandle {
	out := make([]weightedHandle, 0, len(indexes))
	for _, idx := range indexes {
		if idx.Sprite < 0 || idx.Sprite >= len(t.sprites) {
			logger.Warning("sprite index outside the atlas", "index", idx.Sprite, "sprites", len(t.sprites))
			continue
		}
		out = append(out, weightedHandle{Handle: Handle(idx.Sprite), Weight: idx.Weight})
	}
	return out
}
