// Package editor is the state container behind the UI: the open projects,
// the shared palette registry and tileset, and the staged event queue that
// keeps sprite state consistent with cell mutations.
package editor

import (
	"errors"
	"fmt"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/project"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/tileset"
)

// ErrNoProject means an operation needs an open project and none is active.
var ErrNoProject = errors.New("no open project")

// Editor owns the open projects and the shared, read-only palette and
// tileset state. All mutation runs on the caller's loop; the editor has no
// goroutines of its own.
type Editor struct {
	Resolver *mapgen.Resolver
	Tileset  *tileset.Tileset

	projects []*project.Project
	current  int

	// Staged mutations, drained in delete, set, place, sprite order each
	// tick. A stage may enqueue work for a later stage of the same tick.
	pendingDeletes []cdda.Coordinates
	pendingSets    []placement
	pendingPlaces  []placement
	pendingSprites []Event

	// Resolved identifiers per cell, dropped when the cell or a neighbor
	// changes. Keeping them stable between changes is what makes autotile
	// comparisons and weighted picks consistent across redraws.
	resolved map[cdda.Coordinates]mapgen.IDGroup
}

type placement struct {
	at   cdda.Coordinates
	cell mapgen.Cell
}

// New creates an editor around shared palette and tileset state.
func New(resolver *mapgen.Resolver, ts *tileset.Tileset) *Editor {
	return &Editor{
		Resolver: resolver,
		Tileset:  ts,
		current:  -1,
		resolved: make(map[cdda.Coordinates]mapgen.IDGroup),
	}
}

// AddProject opens a project. The first project becomes active.
func (e *Editor) AddProject(p *project.Project) int {
	e.projects = append(e.projects, p)
	if e.current < 0 {
		e.current = 0
	}
	return len(e.projects) - 1
}

// Projects returns the open projects in open order.
func (e *Editor) Projects() []*project.Project {
	return e.projects
}

// Current returns the active project, or nil when none is open.
func (e *Editor) Current() *project.Project {
	if e.current < 0 || e.current >= len(e.projects) {
		return nil
	}
	return e.projects[e.current]
}

// CurrentIndex returns the index of the active project.
func (e *Editor) CurrentIndex() int {
	return e.current
}

// SwitchProject activates a project by index. The renderer is told to drop
// every sprite and is handed the newly active map by reference.
func (e *Editor) SwitchProject(index int) ([]Event, error) {
	if index < 0 || index >= len(e.projects) {
		return nil, fmt.Errorf("project index %d out of range", index)
	}
	e.current = index
	e.resolved = make(map[cdda.Coordinates]mapgen.IDGroup)
	return []Event{
		ClearTiles{},
		SpawnMapEntity{Map: e.projects[index].MapEntity},
	}, nil
}

// Place stages a character placement. Placing onto an existing cell is a
// no-op, except that blank cells may be drawn over.
func (e *Editor) Place(at cdda.Coordinates, character string) error {
	p := e.Current()
	if p == nil {
		return ErrNoProject
	}
	if !p.MapEntity.InBounds(at) {
		return fmt.Errorf("coordinate %s outside the map", at)
	}
	e.pendingPlaces = append(e.pendingPlaces, placement{at: at, cell: mapgen.Cell{Character: character}})
	return nil
}

// Delete stages a cell removal. The removed cell leaves a blank cell
// behind so the grid stays dense where the author has been.
func (e *Editor) Delete(at cdda.Coordinates) error {
	if e.Current() == nil {
		return ErrNoProject
	}
	e.pendingDeletes = append(e.pendingDeletes, at)
	return nil
}

// Clear removes every cell of the active map.
func (e *Editor) Clear() ([]Event, error) {
	p := e.Current()
	if p == nil {
		return nil, ErrNoProject
	}
	p.MapEntity.Cells = make(map[cdda.Coordinates]mapgen.Cell)
	e.resolved = make(map[cdda.Coordinates]mapgen.IDGroup)
	e.dropPending()
	return []Event{ClearTiles{}}, nil
}

func (e *Editor) dropPending() {
	e.pendingDeletes = nil
	e.pendingSets = nil
	e.pendingPlaces = nil
	e.pendingSprites = nil
}

// Tick drains the staged queues in delete, set, place, sprite order and
// returns the events of the whole tick in emission order. Earlier stages
// may enqueue events consumed by later stages of the same tick.
func (e *Editor) Tick() []Event {
	p := e.Current()
	if p == nil {
		return nil
	}
	m := p.MapEntity
	var out []Event

	deletes := e.pendingDeletes
	e.pendingDeletes = nil
	for _, at := range deletes {
		cell, ok := m.Cell(at)
		if !ok {
			continue
		}
		m.DeleteCell(at)
		e.invalidate(at)
		out = append(out, TileDeleted{At: at, Cell: cell})

		// A deleted cell becomes a blank cell rather than a hole.
		e.pendingSets = append(e.pendingSets, placement{at: at, cell: mapgen.Cell{Character: mapgen.EmptyCharacter}})
		e.queueNeighborUpdates(m, at)
	}

	sets := e.pendingSets
	e.pendingSets = nil
	for _, s := range sets {
		m.SetCell(s.at, s.cell)
		e.invalidate(s.at)
		out = append(out, TilePlaced{At: s.at, Cell: s.cell, ShouldUpdateSprites: false})
	}

	places := e.pendingPlaces
	e.pendingPlaces = nil
	for _, pl := range places {
		if existing, ok := m.Cell(pl.at); ok && existing.Character != mapgen.EmptyCharacter {
			continue
		}
		m.SetCell(pl.at, pl.cell)
		e.invalidate(pl.at)
		out = append(out, TilePlaced{At: pl.at, Cell: pl.cell, ShouldUpdateSprites: true})
		e.pendingSprites = append(e.pendingSprites, SpawnSprite{At: pl.at})
		e.queueNeighborUpdates(m, pl.at)
	}

	sprites := e.pendingSprites
	e.pendingSprites = nil
	out = append(out, sprites...)

	return out
}

// queueNeighborUpdates stages one UpdateSprite per extant neighbor and
// drops their cached resolutions.
func (e *Editor) queueNeighborUpdates(m *mapgen.MapEntity, at cdda.Coordinates) {
	for _, n := range m.Adjacent(at) {
		if n.Cell == nil {
			continue
		}
		delete(e.resolved, n.At)
		e.pendingSprites = append(e.pendingSprites, UpdateSprite{At: n.At})
	}
}

// invalidate drops the cached resolution of a cell and its neighbors.
func (e *Editor) invalidate(at cdda.Coordinates) {
	delete(e.resolved, at)
	for _, n := range at.Neighbors() {
		delete(e.resolved, n)
	}
}

// resolveCell returns the cached resolved identifiers of a cell, resolving
// on first use.
func (e *Editor) resolveCell(m *mapgen.MapEntity, at cdda.Coordinates, cell mapgen.Cell) mapgen.IDGroup {
	if group, ok := e.resolved[at]; ok {
		return group
	}
	group := e.Resolver.ResolveCharacter(m, cell.Character)
	e.resolved[at] = group
	return group
}
