// Package cdda models the shared value grammar of the CDDA JSON corpus:
// namespaced identifiers, weighted values, parameter references and the
// union-typed map object ids used by palettes and mapgen documents.
package cdda

// TileID is a namespaced string identifier (e.g. "t_grass", "f_chair").
type TileID string

// PaletteID identifies a palette document.
type PaletteID string

// ItemID identifies an item definition.
type ItemID string

// ParameterID names a palette- or map-scoped parameter.
type ParameterID string

// ParameterType is the declarative tag on a parameter declaration.
type ParameterType string

const (
	ParamTerStrID       ParameterType = "ter_str_id"
	ParamFurnStrID      ParameterType = "furn_str_id"
	ParamNestedMapgenID ParameterType = "nested_mapgen_id"
	ParamPaletteID      ParameterType = "palette_id"
	ParamString         ParameterType = "string"
)

// Role is the category of a cell's meaning.
type Role int

const (
	RoleTerrain Role = iota
	RoleFurniture
	RoleItem
	RoleToilet
)

// String returns the string representation of a Role
func (r Role) String() string {
	switch r {
	case RoleTerrain:
		return "terrain"
	case RoleFurniture:
		return "furniture"
	case RoleItem:
		return "item"
	case RoleToilet:
		return "toilet"
	default:
		return "unknown"
	}
}
