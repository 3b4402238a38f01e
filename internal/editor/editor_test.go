package editor

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/palette"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/project"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/tileset"
)

const editorTestConfig = `{
	"tile_info": [{"pixelscale": 1, "width": 16, "height": 16}],
	"tiles-new": [
		{
			"file": "atlas.png",
			"tiles": [
				{"id": "t_floor", "fg": 0},
				{
					"id": "t_wall",
					"fg": 1,
					"multitile": true,
					"additional_tiles": [
						{"id": "center", "fg": 2},
						{"id": "corner", "fg": [3, 4, 5, 6]},
						{"id": "t_connection", "fg": [7, 8, 9, 10]},
						{"id": "edge", "fg": [11, 12]},
						{"id": "end_piece", "fg": [13, 14, 15, 16]},
						{"id": "unconnected", "fg": 17}
					]
				}
			]
		}
	]
}`

// newTestEditor builds an editor over a wall/floor tileset and a palette
// mapping # to t_wall and . to t_floor.
func newTestEditor(t *testing.T) *Editor {
	t.Helper()

	dir := t.TempDir()
	info := "NAME: Editor Test\n\nJSON: tile_config.json\n"
	if err := os.WriteFile(filepath.Join(dir, "tileset.txt"), []byte(info), 0o644); err != nil {
		t.Fatalf("write tileset.txt: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tile_config.json"), []byte(editorTestConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	atlas := image.NewRGBA(image.Rect(0, 0, 6*16, 3*16))
	for y := 0; y < atlas.Bounds().Dy(); y++ {
		for x := 0; x < atlas.Bounds().Dx(); x++ {
			atlas.SetRGBA(x, y, color.RGBA{G: 0xff, A: 0xff})
		}
	}
	f, err := os.Create(filepath.Join(dir, "atlas.png"))
	if err != nil {
		t.Fatalf("create atlas: %v", err)
	}
	if err := png.Encode(f, atlas); err != nil {
		t.Fatalf("encode atlas: %v", err)
	}
	f.Close()

	rng := random.New(1)
	ts, err := tileset.Load(dir, rng)
	if err != nil {
		t.Fatalf("load tileset: %v", err)
	}

	var wallPalette palette.Palette
	doc := `{"id": "walls", "terrain": {"#": "t_wall", ".": "t_floor"}}`
	if err := json.Unmarshal([]byte(doc), &wallPalette); err != nil {
		t.Fatalf("parse palette: %v", err)
	}
	resolver := mapgen.NewResolver(palette.Map{"walls": &wallPalette}, rng)

	return New(resolver, ts)
}

// openTestProject opens a blank project wired to the walls palette.
func openTestProject(t *testing.T, e *Editor, name string) *project.Project {
	t.Helper()
	p := project.NewBlank(name, 24, 24)
	p.MapEntity.Selection.Palettes = []cdda.MapObjectID{cdda.SingleID("walls")}
	e.AddProject(p)
	return p
}

// place runs a placement through a full tick.
func place(t *testing.T, e *Editor, at cdda.Coordinates, ch string) []Event {
	t.Helper()
	if err := e.Place(at, ch); err != nil {
		t.Fatalf("Place(%s, %q) returned error: %v", at, ch, err)
	}
	return e.Tick()
}

func TestPlaceEmitsEvents(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	at := cdda.Coordinates{X: 5, Y: 5}
	events := place(t, e, at, "#")

	var placed *TilePlaced
	var spawned *SpawnSprite
	for _, ev := range events {
		switch ev := ev.(type) {
		case TilePlaced:
			placed = &ev
		case SpawnSprite:
			spawned = &ev
		}
	}
	if placed == nil || placed.At != at || !placed.ShouldUpdateSprites {
		t.Errorf("TilePlaced = %+v, want placement at %s with sprite updates", placed, at)
	}
	if spawned == nil || spawned.At != at {
		t.Errorf("SpawnSprite = %+v, want spawn at %s", spawned, at)
	}
	if _, ok := e.Current().MapEntity.Cell(at); !ok {
		t.Error("placed cell missing from the map")
	}
}

func TestPlaceIsIdempotent(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	at := cdda.Coordinates{X: 3, Y: 3}
	place(t, e, at, "#")
	events := place(t, e, at, ".")

	for _, ev := range events {
		if placed, ok := ev.(TilePlaced); ok && placed.At == at {
			t.Errorf("second placement emitted %+v, want no-op", placed)
		}
	}
	cell, _ := e.Current().MapEntity.Cell(at)
	if cell.Character != "#" {
		t.Errorf("cell character = %q, want the first placement kept", cell.Character)
	}
}

func TestPlaceOverBlankCell(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	at := cdda.Coordinates{X: 2, Y: 2}
	place(t, e, at, "#")
	if err := e.Delete(at); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	e.Tick()

	cell, ok := e.Current().MapEntity.Cell(at)
	if !ok || cell.Character != mapgen.EmptyCharacter {
		t.Fatalf("deleted cell = %+v, %v, want a blank cell", cell, ok)
	}

	place(t, e, at, ".")
	cell, _ = e.Current().MapEntity.Cell(at)
	if cell.Character != "." {
		t.Errorf("cell character = %q, want blank cells to be drawable", cell.Character)
	}
}

func TestNeighborInvalidation(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	center := cdda.Coordinates{X: 5, Y: 5}
	north := center.North()
	east := center.East()
	place(t, e, north, "#")
	place(t, e, east, "#")

	events := place(t, e, center, "#")

	updates := map[cdda.Coordinates]int{}
	for _, ev := range events {
		if up, ok := ev.(UpdateSprite); ok {
			updates[up.At]++
		}
	}
	if updates[north] != 1 {
		t.Errorf("north neighbor got %d updates, want exactly 1", updates[north])
	}
	if updates[east] != 1 {
		t.Errorf("east neighbor got %d updates, want exactly 1", updates[east])
	}
	if len(updates) != 2 {
		t.Errorf("updates = %v, want only the two extant neighbors", updates)
	}
}

func TestDeleteEmitsNeighborUpdates(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	a := cdda.Coordinates{X: 5, Y: 5}
	b := a.South()
	place(t, e, a, "#")
	place(t, e, b, "#")

	if err := e.Delete(a); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	events := e.Tick()

	var deleted *TileDeleted
	updates := 0
	for _, ev := range events {
		switch ev := ev.(type) {
		case TileDeleted:
			deleted = &ev
		case UpdateSprite:
			if ev.At == b {
				updates++
			}
		}
	}
	if deleted == nil || deleted.At != a || deleted.Cell.Character != "#" {
		t.Errorf("TileDeleted = %+v, want the wall at %s", deleted, a)
	}
	if updates != 1 {
		t.Errorf("south neighbor got %d updates, want exactly 1", updates)
	}
}

func TestAutotileCross(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	center := cdda.Coordinates{X: 1, Y: 1}
	arms := []cdda.Coordinates{center.North(), center.South(), center.East(), center.West()}
	place(t, e, center, "#")
	for _, at := range arms {
		place(t, e, at, "#")
	}

	tests := []struct {
		name string
		at   cdda.Coordinates
		want tileset.Subtile
	}{
		{"center", center, tileset.SubtileCenter},
		{"west arm", center.West(), tileset.SubtileEndPieceW},
		{"east arm", center.East(), tileset.SubtileEndPieceE},
		{"north arm", center.North(), tileset.SubtileEndPieceN},
		{"south arm", center.South(), tileset.SubtileEndPieceS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice := e.GetSprite(tt.at)
			if choice.Kind != ChoiceExists || choice.Terrain == nil {
				t.Fatalf("choice = %+v, want resolved terrain", choice)
			}
			if choice.Terrain.ID != "t_wall" {
				t.Fatalf("terrain id = %s, want t_wall", choice.Terrain.ID)
			}
			if choice.Terrain.Subtile != tt.want {
				t.Errorf("subtile = %s, want %s", choice.Terrain.Subtile, tt.want)
			}
			if choice.Terrain.Layer != LayerTerrain {
				t.Errorf("layer = %d, want %d", choice.Terrain.Layer, LayerTerrain)
			}
		})
	}
}

func TestAutotileBlock(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	// A full 3x3 block of walls.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			place(t, e, cdda.Coordinates{X: x, Y: y}, "#")
		}
	}

	tests := []struct {
		name string
		at   cdda.Coordinates
		want tileset.Subtile
	}{
		{"center", cdda.Coordinates{X: 1, Y: 1}, tileset.SubtileCenter},
		{"top edge", cdda.Coordinates{X: 1, Y: 0}, tileset.SubtileTConnectionN},
		{"bottom edge", cdda.Coordinates{X: 1, Y: 2}, tileset.SubtileTConnectionS},
		{"left edge", cdda.Coordinates{X: 0, Y: 1}, tileset.SubtileTConnectionW},
		{"right edge", cdda.Coordinates{X: 2, Y: 1}, tileset.SubtileTConnectionE},
		{"top left", cdda.Coordinates{X: 0, Y: 0}, tileset.SubtileCornerNW},
		{"top right", cdda.Coordinates{X: 2, Y: 0}, tileset.SubtileCornerNE},
		{"bottom left", cdda.Coordinates{X: 0, Y: 2}, tileset.SubtileCornerSW},
		{"bottom right", cdda.Coordinates{X: 2, Y: 2}, tileset.SubtileCornerSE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice := e.GetSprite(tt.at)
			if choice.Kind != ChoiceExists || choice.Terrain == nil {
				t.Fatalf("choice = %+v, want resolved terrain", choice)
			}
			if choice.Terrain.Subtile != tt.want {
				t.Errorf("subtile = %s, want %s", choice.Terrain.Subtile, tt.want)
			}
		})
	}
}

func TestAutotileTransitionOnPlace(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	lone := cdda.Coordinates{X: 5, Y: 4}
	place(t, e, lone, "#")

	if choice := e.GetSprite(lone); choice.Terrain == nil || choice.Terrain.Subtile != tileset.SubtileUnconnected {
		t.Fatalf("lone wall subtile = %+v, want unconnected", choice.Terrain)
	}

	place(t, e, cdda.Coordinates{X: 5, Y: 5}, "#")

	// The former lone wall now has a south neighbor.
	if choice := e.GetSprite(lone); choice.Terrain == nil || choice.Terrain.Subtile != tileset.SubtileEndPieceN {
		t.Errorf("wall subtile after placement = %+v, want end_piece_n", choice.Terrain)
	}
}

func TestGetSpriteEmptyAndFallback(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	// No cell at all.
	if choice := e.GetSprite(cdda.Coordinates{X: 9, Y: 9}); choice.Kind != ChoiceEmpty {
		t.Errorf("absent cell choice = %+v, want empty", choice)
	}

	// Blank cells render nothing.
	place(t, e, cdda.Coordinates{X: 1, Y: 1}, mapgen.EmptyCharacter)
	if choice := e.GetSprite(cdda.Coordinates{X: 1, Y: 1}); choice.Kind != ChoiceEmpty {
		t.Errorf("blank cell choice = %+v, want empty", choice)
	}

	// A character no palette maps renders the fallback sprite.
	place(t, e, cdda.Coordinates{X: 2, Y: 2}, "?")
	choice := e.GetSprite(cdda.Coordinates{X: 2, Y: 2})
	if choice.Kind != ChoiceFallback || choice.Fallback == nil {
		t.Errorf("unmapped cell choice = %+v, want fallback", choice)
	}
}

func TestSwitchProject(t *testing.T) {
	e := newTestEditor(t)
	a := openTestProject(t, e, "house_a")
	b := openTestProject(t, e, "house_b")

	place(t, e, cdda.Coordinates{X: 1, Y: 1}, "#")

	events, err := e.SwitchProject(1)
	if err != nil {
		t.Fatalf("SwitchProject returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("events = %+v, want ClearTiles then SpawnMapEntity", events)
	}
	if _, ok := events[0].(ClearTiles); !ok {
		t.Errorf("first event = %T, want ClearTiles", events[0])
	}
	spawn, ok := events[1].(SpawnMapEntity)
	if !ok {
		t.Fatalf("second event = %T, want SpawnMapEntity", events[1])
	}
	if spawn.Map != b.MapEntity {
		t.Error("spawned map is not project B's map by reference")
	}

	if e.Current() != b {
		t.Error("current project did not switch")
	}
	// A's cells stay with A; B starts empty.
	if len(a.MapEntity.Cells) != 1 {
		t.Errorf("project A cell count = %d, want its one wall kept", len(a.MapEntity.Cells))
	}
	if len(b.MapEntity.Cells) != 0 {
		t.Errorf("project B cell count = %d, want 0", len(b.MapEntity.Cells))
	}

	if _, err := e.SwitchProject(5); err == nil {
		t.Error("out-of-range switch succeeded")
	}
}

func TestClear(t *testing.T) {
	e := newTestEditor(t)
	openTestProject(t, e, "house")

	place(t, e, cdda.Coordinates{X: 1, Y: 1}, "#")
	place(t, e, cdda.Coordinates{X: 2, Y: 1}, "#")

	events, err := e.Clear()
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %+v, want a single ClearTiles", events)
	}
	if _, ok := events[0].(ClearTiles); !ok {
		t.Errorf("event = %T, want ClearTiles", events[0])
	}
	if len(e.Current().MapEntity.Cells) != 0 {
		t.Errorf("cell count = %d, want 0", len(e.Current().MapEntity.Cells))
	}
}

func TestNoProject(t *testing.T) {
	e := newTestEditor(t)

	if err := e.Place(cdda.Coordinates{X: 0, Y: 0}, "#"); err != ErrNoProject {
		t.Errorf("Place error = %v, want ErrNoProject", err)
	}
	if err := e.Delete(cdda.Coordinates{X: 0, Y: 0}); err != ErrNoProject {
		t.Errorf("Delete error = %v, want ErrNoProject", err)
	}
	if _, err := e.Clear(); err != ErrNoProject {
		t.Errorf("Clear error = %v, want ErrNoProject", err)
	}
	if choice := e.GetSprite(cdda.Coordinates{X: 0, Y: 0}); choice.Kind != ChoiceEmpty {
		t.Errorf("choice = %+v, want empty", choice)
	}
}
