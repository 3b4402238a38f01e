// Package mapgen models mapgen documents and the resolution engine that
// turns a character-indexed map plus its palette stack into concrete
// terrain and furniture identifiers. Loading happens once at project-open;
// the resolved MapEntity is then mutated only through the editor.
package mapgen

import (
	"fmt"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
)

// OvermapTileSize is the edge length, in cells, of one overmap terrain unit.
const OvermapTileSize = 24

// EmptyCharacter renders nothing; it is the authored form of an
// intentionally blank cell.
const EmptyCharacter = " "

// Cell is a single authored map cell. The character is the authoring-time
// handle; its meaning is resolved against the map's palette stack.
type Cell struct {
	Character string `json:"character"`
}

// EntityKind tags the shape of a MapEntity.
type EntityKind int

const (
	// EntitySingle covers one overmap terrain unit.
	EntitySingle EntityKind = iota
	// EntityMulti is a single-unit map shared by several om_terrain ids.
	EntityMulti
	// EntityNested spans a grid of overmap terrain units.
	EntityNested
)

// String returns the string representation of an EntityKind
func (k EntityKind) String() string {
	switch k {
	case EntitySingle:
		return "single"
	case EntityMulti:
		return "multi"
	case EntityNested:
		return "nested"
	default:
		return "unknown"
	}
}

// MarshalText writes the string form so saves stay readable.
func (k EntityKind) MarshalText() ([]byte, error) {
	if k < EntitySingle || k > EntityNested {
		return nil, fmt.Errorf("unknown entity kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses the string form.
func (k *EntityKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "single":
		*k = EntitySingle
	case "multi":
		*k = EntityMulti
	case "nested":
		*k = EntityNested
	default:
		return fmt.Errorf("unknown entity kind %q", text)
	}
	return nil
}

// TileSelection is the per-map mapping layer: the map's own character
// mappings, its palette references and its parameters, raw and computed.
type TileSelection struct {
	FillTer *cdda.TileID `json:"fill_ter,omitempty"`

	Palettes  []cdda.MapObjectID          `json:"palettes,omitempty"`
	Terrain   map[string]cdda.MapObjectID `json:"terrain,omitempty"`
	Furniture map[string]cdda.MapObjectID `json:"furniture,omitempty"`

	Parameters map[cdda.ParameterID]cdda.Parameter `json:"parameters,omitempty"`
	Computed   *ComputedParameters                 `json:"computed_parameters,omitempty"`
}

// Mapping returns the character mapping for a role. Items and toilets are
// defined only in palettes, never on the map itself.
func (s *TileSelection) Mapping(role cdda.Role) map[string]cdda.MapObjectID {
	switch role {
	case cdda.RoleTerrain:
		return s.Terrain
	case cdda.RoleFurniture:
		return s.Furniture
	default:
		return nil
	}
}

// MapEntity is one loaded mapgen document: its identity, its sized cell
// grid and its mapping layer. Single and Multi entities cover one overmap
// unit; Nested entities cover a GridCols by GridRows block of them.
type MapEntity struct {
	Kind       EntityKind `json:"kind"`
	OmTerrains []string   `json:"om_terrain"`

	// Grid shape, set for Nested entities only.
	GridCols int `json:"grid_cols,omitempty"`
	GridRows int `json:"grid_rows,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Selection TileSelection             `json:"object"`
	Cells     map[cdda.Coordinates]Cell `json:"cells"`
}

// NewSingle creates a blank single-unit map with no mapgen document behind
// it, for starting a project from scratch.
func NewSingle(omTerrain string, width, height int) *MapEntity {
	return &MapEntity{
		Kind:       EntitySingle,
		OmTerrains: []string{omTerrain},
		Width:      width,
		Height:     height,
		Cells:      make(map[cdda.Coordinates]Cell),
	}
}

// Name returns the entity's primary om_terrain id.
func (m *MapEntity) Name() string {
	if len(m.OmTerrains) == 0 {
		return ""
	}
	return m.OmTerrains[0]
}

// InBounds reports whether a coordinate lies inside the map.
func (m *MapEntity) InBounds(at cdda.Coordinates) bool {
	return at.X >= 0 && at.X < m.Width && at.Y >= 0 && at.Y < m.Height
}

// Cell returns the cell at a coordinate, if one exists.
func (m *MapEntity) Cell(at cdda.Coordinates) (Cell, bool) {
	c, ok := m.Cells[at]
	return c, ok
}

// SetCell inserts or overwrites the cell at a coordinate.
func (m *MapEntity) SetCell(at cdda.Coordinates, c Cell) {
	if m.Cells == nil {
		m.Cells = make(map[cdda.Coordinates]Cell)
	}
	m.Cells[at] = c
}

// DeleteCell removes the cell at a coordinate.
func (m *MapEntity) DeleteCell(at cdda.Coordinates) {
	delete(m.Cells, at)
}

// AdjacentCell is one entry of a cell's 4-neighborhood.
type AdjacentCell struct {
	At   cdda.Coordinates
	Cell *Cell
}

// Adjacent returns the 4-neighborhood of a coordinate in N, E, S, W order.
// Cell is nil where no cell exists.
func (m *MapEntity) Adjacent(at cdda.Coordinates) [4]AdjacentCell {
	var out [4]AdjacentCell
	for i, n := range at.Neighbors() {
		out[i].At = n
		if c, ok := m.Cells[n]; ok {
			cell := c
			out[i].Cell = &cell
		}
	}
	return out
}
