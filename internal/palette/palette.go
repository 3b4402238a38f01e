// Package palette models CDDA mapgen palette documents: named bundles of
// character-to-object mappings and parameters shared across many mapgen
// documents. Palettes may recursively include other palettes.
package palette

import (
	"encoding/json"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
)

// Palette is a single palette document. Every section except the id is
// optional in the corpus and defaults to empty.
type Palette struct {
	ID cdda.PaletteID `json:"id"`

	Parameters map[cdda.ParameterID]cdda.Parameter `json:"parameters,omitempty"`

	// Character mappings, keyed by the single authoring character.
	Terrain   map[string]cdda.MapObjectID   `json:"terrain,omitempty"`
	Furniture map[string]cdda.MapObjectID   `json:"furniture,omitempty"`
	Items     map[string]cdda.ItemSpawnList `json:"items,omitempty"`

	// Toilet entries carry placement detail the editor does not interpret;
	// presence of the character is what matters for resolution.
	Toilets map[string]json.RawMessage `json:"toilets,omitempty"`

	// References to included palettes, in declared order.
	Palettes []cdda.MapObjectID `json:"palettes,omitempty"`
}

// Mapping returns the character mapping section for a role. Item and toilet
// sections have different value shapes and are accessed directly.
func (p *Palette) Mapping(role cdda.Role) map[string]cdda.MapObjectID {
	switch role {
	case cdda.RoleTerrain:
		return p.Terrain
	case cdda.RoleFurniture:
		return p.Furniture
	default:
		return nil
	}
}

// Map is the global palette registry built at project-open. It is treated
// as read-only shared state after loading.
type Map map[cdda.PaletteID]*Palette
