package mapgen

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
)

// rawDocument is the outer shell of one entry in a mapgen file.
type rawDocument struct {
	Type      string          `json:"type"`
	OmTerrain json.RawMessage `json:"om_terrain"`
	Object    json.RawMessage `json:"object"`
}

// rawObject is the "object" body of a mapgen document.
type rawObject struct {
	FillTer    *cdda.TileID                        `json:"fill_ter"`
	Rows       []string                            `json:"rows"`
	MapgenSize []int                               `json:"mapgensize"`
	Palettes   []cdda.MapObjectID                  `json:"palettes"`
	Terrain    map[string]cdda.MapObjectID         `json:"terrain"`
	Furniture  map[string]cdda.MapObjectID         `json:"furniture"`
	Parameters map[cdda.ParameterID]cdda.Parameter `json:"parameters"`
}

// omTerrainMatch describes how a document's om_terrain field matched the
// requested id.
type omTerrainMatch struct {
	kind  EntityKind
	names []string
	cols  int
	rows  int
}

// matchOmTerrain matches a raw om_terrain field against an id. The field
// is a plain string, a list of ids sharing one map, or a 2D grid spanning
// several overmap units.
func matchOmTerrain(raw json.RawMessage, id string) (omTerrainMatch, bool) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single != id {
			return omTerrainMatch{}, false
		}
		return omTerrainMatch{kind: EntitySingle, names: []string{single}, cols: 1, rows: 1}, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, name := range list {
			if name == id {
				return omTerrainMatch{kind: EntityMulti, names: list, cols: 1, rows: 1}, true
			}
		}
		return omTerrainMatch{}, false
	}

	var grid [][]string
	if err := json.Unmarshal(raw, &grid); err == nil && len(grid) > 0 {
		found := false
		var names []string
		for _, row := range grid {
			for _, name := range row {
				names = append(names, name)
				if name == id {
					found = true
				}
			}
		}
		if !found {
			return omTerrainMatch{}, false
		}
		return omTerrainMatch{kind: EntityNested, names: names, cols: len(grid[0]), rows: len(grid)}, true
	}

	return omTerrainMatch{}, false
}

// LoadFile finds the mapgen document matching an om_terrain id in a file
// and resolves it into a MapEntity: cells scanned from the rows, sizes
// derived from the om_terrain shape, parameters computed against the
// resolver's palette registry.
func (r *Resolver) LoadFile(path, id string) (*MapEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapgen file %s: %w", path, err)
	}
	return r.Load(data, id)
}

// Load is LoadFile over in-memory file contents.
func (r *Resolver) Load(data []byte, id string) (*MapEntity, error) {
	var documents []rawDocument
	if err := json.Unmarshal(data, &documents); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for i, doc := range documents {
		if len(doc.OmTerrain) == 0 {
			continue
		}
		match, ok := matchOmTerrain(doc.OmTerrain, id)
		if !ok {
			continue
		}

		entity, err := r.buildEntity(doc, match)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		logger.Info("loaded mapgen document",
			"om_terrain", id, "kind", match.kind.String(),
			"width", entity.Width, "height", entity.Height)
		return entity, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *Resolver) buildEntity(doc rawDocument, match omTerrainMatch) (*MapEntity, error) {
	var obj rawObject
	if err := json.Unmarshal(doc.Object, &obj); err != nil {
		return nil, fmt.Errorf("%w: object: %v", ErrParse, err)
	}

	width := match.cols * OvermapTileSize
	height := match.rows * OvermapTileSize
	if len(obj.MapgenSize) == 2 {
		width = obj.MapgenSize[0]
		height = obj.MapgenSize[1]
	}

	cells := make(map[cdda.Coordinates]Cell, width*height)
	for row, line := range obj.Rows {
		for col, ch := range []rune(line) {
			cells[cdda.Coordinates{X: col, Y: row}] = Cell{Character: string(ch)}
		}
	}

	computed, err := r.ComputeParameters(obj.Parameters, obj.Palettes)
	if err != nil {
		return nil, err
	}

	entity := &MapEntity{
		Kind:       match.kind,
		OmTerrains: match.names,
		Width:      width,
		Height:     height,
		Selection: TileSelection{
			FillTer:    obj.FillTer,
			Palettes:   obj.Palettes,
			Terrain:    obj.Terrain,
			Furniture:  obj.Furniture,
			Parameters: obj.Parameters,
			Computed:   computed,
		},
		Cells: cells,
	}
	if match.kind == EntityNested {
		entity.GridCols = match.cols
		entity.GridRows = match.rows
	}

	return entity, nil
}
