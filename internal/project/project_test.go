package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
)

func testProject() *Project {
	p := NewBlank("house", 24, 24)
	p.MapEntity.SetCell(cdda.Coordinates{X: 0, Y: 0}, mapgen.Cell{Character: "#"})
	p.MapEntity.SetCell(cdda.Coordinates{X: 1, Y: 0}, mapgen.Cell{Character: "#"})
	p.MapEntity.SetCell(cdda.Coordinates{X: 5, Y: 9}, mapgen.Cell{Character: "."})
	fill := cdda.TileID("t_floor")
	p.MapEntity.Selection.FillTer = &fill
	return p
}

func TestSaveStateJSON(t *testing.T) {
	tests := []struct {
		state SaveState
		want  string
	}{
		{SaveState{Kind: NotSaved}, `{"state":"not_saved"}`},
		{SaveState{Kind: Saved, Path: "/tmp/house.map"}, `{"state":"saved","path":"/tmp/house.map"}`},
		{SaveState{Kind: AutoSaved, Path: "/tmp/auto_save_house.map"}, `{"state":"auto_saved","path":"/tmp/auto_save_house.map"}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.state)
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.state, err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal %v = %s, want %s", tt.state, data, tt.want)
		}

		var back SaveState
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != tt.state {
			t.Errorf("round trip of %v = %v", tt.state, back)
		}
	}

	var bad SaveState
	if err := json.Unmarshal([]byte(`{"state":"lost"}`), &bad); err == nil {
		t.Error("unknown save state unmarshalled without error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := testProject()
	path := filepath.Join(t.TempDir(), "house.map")

	if err := Save(p, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if p.SaveState.Kind != Saved || p.SaveState.Path != path {
		t.Errorf("save state = %+v, want Saved at %s", p.SaveState, path)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if back.Name != p.Name {
		t.Errorf("name = %q, want %q", back.Name, p.Name)
	}
	if len(back.MapEntity.Cells) != len(p.MapEntity.Cells) {
		t.Fatalf("cell count = %d, want %d", len(back.MapEntity.Cells), len(p.MapEntity.Cells))
	}
	for at, cell := range p.MapEntity.Cells {
		if got, ok := back.MapEntity.Cell(at); !ok || got != cell {
			t.Errorf("cell %s = %+v, %v, want %+v", at, got, ok, cell)
		}
	}
	if back.MapEntity.Selection.FillTer == nil || *back.MapEntity.Selection.FillTer != "t_floor" {
		t.Errorf("fill_ter = %v, want t_floor", back.MapEntity.Selection.FillTer)
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	p := testProject()
	path := filepath.Join(t.TempDir(), "missing", "house.map")

	if err := Save(p, path); !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("Save error = %v, want ErrDirectoryNotFound", err)
	}
	if p.SaveState.Kind != NotSaved {
		t.Errorf("failed save changed state to %v", p.SaveState)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.map")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrParse) {
		t.Errorf("Load error = %v, want ErrParse", err)
	}
}

func TestAutoSaver(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewAutoSaver(dir)
	if err != nil {
		t.Fatalf("NewAutoSaver returned error: %v", err)
	}

	p := testProject()
	if err := saver.Save(p); err != nil {
		t.Fatalf("auto save returned error: %v", err)
	}
	if p.SaveState.Kind != AutoSaved {
		t.Errorf("save state = %+v, want AutoSaved", p.SaveState)
	}
	if want := filepath.Join(dir, "auto_save_house.map"); p.SaveState.Path != want {
		t.Errorf("auto save path = %s, want %s", p.SaveState.Path, want)
	}

	back, err := saver.Load("house")
	if err != nil {
		t.Fatalf("auto save load returned error: %v", err)
	}
	if len(back.MapEntity.Cells) != len(p.MapEntity.Cells) {
		t.Errorf("restored cell count = %d, want %d", len(back.MapEntity.Cells), len(p.MapEntity.Cells))
	}
}

func TestAutoSaverMissing(t *testing.T) {
	saver, err := NewAutoSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAutoSaver returned error: %v", err)
	}

	if _, err := saver.Load("never_saved"); !errors.Is(err, ErrNoAutoSave) {
		t.Errorf("Load error = %v, want ErrNoAutoSave", err)
	}
}

func TestNewAutoSaverMissingDirectory(t *testing.T) {
	if _, err := NewAutoSaver(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("NewAutoSaver error = %v, want ErrDirectoryNotFound", err)
	}
}
