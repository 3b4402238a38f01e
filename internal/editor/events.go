package editor

import (
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
)

// Event is one entry on the editor's event bus. Consumers receive events
// in the order the staged tick produced them.
type Event interface {
	event()
}

// TilePlaced reports a cell inserted into the active map.
// ShouldUpdateSprites is false for internal re-placements such as the blank
// cell left behind by a delete.
type TilePlaced struct {
	At                  cdda.Coordinates
	Cell                mapgen.Cell
	ShouldUpdateSprites bool
}

// TileDeleted reports a cell removed from the active map.
type TileDeleted struct {
	At   cdda.Coordinates
	Cell mapgen.Cell
}

// SpawnSprite asks the renderer to create the sprites of one cell.
type SpawnSprite struct {
	At cdda.Coordinates
}

// UpdateSprite asks the renderer to reselect the sprites of one cell, after
// a neighbor change invalidated its autotile variant.
type UpdateSprite struct {
	At cdda.Coordinates
}

// ClearTiles asks the renderer to drop every sprite.
type ClearTiles struct{}

// SpawnMapEntity carries the newly active map after a project switch. The
// map is shared by reference with the project that owns it.
type SpawnMapEntity struct {
	Map *mapgen.MapEntity
}

func (TilePlaced) event()     {}
func (TileDeleted) event()    {}
func (SpawnSprite) event()    {}
func (UpdateSprite) event()   {}
func (ClearTiles) event()     {}
func (SpawnMapEntity) event() {}
