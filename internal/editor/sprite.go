package editor

import (
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/tileset"
)

// Draw layers, low to high. Terrain draws under everything; furniture and
// toilets sit on top of item markers.
const (
	LayerTerrain   = 1
	LayerItems     = 2
	LayerFurniture = 3
	LayerToilet    = 3
)

// SpriteChoiceKind tags the outcome of a sprite lookup.
type SpriteChoiceKind int

const (
	// ChoiceEmpty is a cell that renders nothing.
	ChoiceEmpty SpriteChoiceKind = iota
	// ChoiceExists carries per-role sprites.
	ChoiceExists
	// ChoiceFallback is a cell whose character resolved to nothing at all.
	ChoiceFallback
)

// SpriteRef is one drawable sprite with its layer and chosen subtile.
type SpriteRef struct {
	ID      cdda.TileID
	Sprite  *tileset.Sprite
	Subtile tileset.Subtile
	Layer   int
}

// SpriteChoice is the renderer-facing result of a cell lookup: the sprites
// of every resolved role, a bare fallback, or nothing.
type SpriteChoice struct {
	Kind SpriteChoiceKind

	Terrain   *SpriteRef
	Furniture *SpriteRef
	Item      *SpriteRef
	Toilet    *SpriteRef

	// Fallback is set for ChoiceFallback and for roles whose identifier
	// the tileset does not know.
	Fallback *tileset.Sprite
}

// GetSprite selects what to draw at a coordinate of the active map. Blank
// and absent cells are Empty; unresolvable characters fall back to the
// default sprite; known identifiers get their autotile variant from the
// 4-neighborhood.
func (e *Editor) GetSprite(at cdda.Coordinates) SpriteChoice {
	p := e.Current()
	if p == nil {
		return SpriteChoice{Kind: ChoiceEmpty}
	}
	m := p.MapEntity

	cell, ok := m.Cell(at)
	if !ok || cell.Character == mapgen.EmptyCharacter {
		return SpriteChoice{Kind: ChoiceEmpty}
	}

	group := e.resolveCell(m, at, cell)
	choice := SpriteChoice{Kind: ChoiceExists}
	resolvedAny := false

	if group.Terrain != nil {
		resolvedAny = true
		choice.Terrain = e.spriteRef(m, at, *group.Terrain, cdda.RoleTerrain, LayerTerrain, &choice)
	}
	if group.Furniture != nil {
		resolvedAny = true
		choice.Furniture = e.spriteRef(m, at, *group.Furniture, cdda.RoleFurniture, LayerFurniture, &choice)
	}
	if id := group.Get(cdda.RoleItem); id != nil {
		resolvedAny = true
		choice.Item = e.spriteRef(m, at, *id, cdda.RoleItem, LayerItems, &choice)
	}
	if group.Toilet != nil {
		resolvedAny = true
		choice.Toilet = e.spriteRef(m, at, *group.Toilet, cdda.RoleToilet, LayerToilet, &choice)
	}

	if !resolvedAny {
		logger.Warning("character resolves to nothing", "character", cell.Character, "at", at.String())
		return SpriteChoice{Kind: ChoiceFallback, Fallback: e.Tileset.Fallback()}
	}
	return choice
}

// spriteRef picks the sprite of one resolved identifier, autotiled against
// the 4-neighborhood. Identifiers the tileset does not know come back nil
// with the choice's fallback set.
func (e *Editor) spriteRef(m *mapgen.MapEntity, at cdda.Coordinates, id cdda.TileID, role cdda.Role, layer int, choice *SpriteChoice) *SpriteRef {
	variants, ok := e.Tileset.Variants(id)
	if !ok {
		logger.Warning("identifier missing from tileset", "id", id, "role", role.String())
		choice.Fallback = e.Tileset.Fallback()
		return nil
	}

	sprite, subtile := variants.Select(e.connectionMask(m, at, id, role))
	return &SpriteRef{ID: id, Sprite: sprite, Subtile: subtile, Layer: layer}
}

// connectionMask reports which cardinal neighbors resolve to the same
// identifier for the same role. Resolved identifiers are compared, not
// characters, so two characters mapping to one terrain still connect.
func (e *Editor) connectionMask(m *mapgen.MapEntity, at cdda.Coordinates, id cdda.TileID, role cdda.Role) uint8 {
	var connected [4]bool
	for i, n := range m.Adjacent(at) {
		if n.Cell == nil || n.Cell.Character == mapgen.EmptyCharacter {
			continue
		}
		neighborID := e.resolveCell(m, n.At, *n.Cell).Get(role)
		connected[i] = neighborID != nil && *neighborID == id
	}
	return tileset.ConnectionMask(connected[0], connected[1], connected[2], connected[3])
}
