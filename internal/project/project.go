// Package project holds the editor's project document: a named map entity
// plus its save state, serialized as JSON for explicit saves and for the
// auto-save directory.
package project

import (
	"encoding/json"
	"fmt"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
)

// SaveStateKind tags where a project lives on disk, if anywhere.
type SaveStateKind int

const (
	// NotSaved projects exist only in memory.
	NotSaved SaveStateKind = iota
	// Saved projects have a user-chosen path.
	Saved
	// AutoSaved projects were last written to the auto-save directory.
	AutoSaved
)

// String returns the string representation of a SaveStateKind
func (k SaveStateKind) String() string {
	switch k {
	case NotSaved:
		return "not_saved"
	case Saved:
		return "saved"
	case AutoSaved:
		return "auto_saved"
	default:
		return "unknown"
	}
}

// SaveState is a project's on-disk location. Path is empty for NotSaved.
type SaveState struct {
	Kind SaveStateKind
	Path string
}

// saveStateJSON is the serialized shape of a SaveState.
type saveStateJSON struct {
	State string `json:"state"`
	Path  string `json:"path,omitempty"`
}

// MarshalJSON writes the tagged form.
func (s SaveState) MarshalJSON() ([]byte, error) {
	return json.Marshal(saveStateJSON{State: s.Kind.String(), Path: s.Path})
}

// UnmarshalJSON parses the tagged form.
func (s *SaveState) UnmarshalJSON(data []byte) error {
	var raw saveStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.State {
	case "not_saved":
		s.Kind = NotSaved
	case "saved":
		s.Kind = Saved
	case "auto_saved":
		s.Kind = AutoSaved
	default:
		return fmt.Errorf("unknown save state %q", raw.State)
	}
	s.Path = raw.Path
	return nil
}

// Project is one open map document.
type Project struct {
	Name      string            `json:"name"`
	MapEntity *mapgen.MapEntity `json:"map_entity"`
	SaveState SaveState         `json:"save_state"`
}

// New creates an unsaved project around a map entity, named after its
// primary om_terrain.
func New(m *mapgen.MapEntity) *Project {
	return &Project{
		Name:      m.Name(),
		MapEntity: m,
		SaveState: SaveState{Kind: NotSaved},
	}
}

// NewBlank creates an unsaved project with an empty single-unit map.
func NewBlank(omTerrain string, width, height int) *Project {
	return New(mapgen.NewSingle(omTerrain, width, height))
}
