package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/cdda"
)

const housePalettes = `[
  {
    "type": "palette",
    "id": "house_general",
    "terrain": {".": "t_floor", "#": "t_wall"},
    "furniture": {"c": "f_chair"},
    "palettes": ["house_plumbing"]
  },
  {
    "type": "palette",
    "id": "house_plumbing",
    "toilets": {"T": {}}
  }
]`

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "mapgen_palettes")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "house.json"), []byte(housePalettes), 0644); err != nil {
		t.Fatal(err)
	}

	palettes, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(palettes) != 2 {
		t.Fatalf("expected 2 palettes, got %d", len(palettes))
	}

	general, ok := palettes["house_general"]
	if !ok {
		t.Fatal("house_general not loaded")
	}
	obj, ok := general.Terrain["#"]
	if !ok || obj.Kind != cdda.ObjectIDSingle || obj.Single.Value.ID != "t_wall" {
		t.Errorf("wrong terrain mapping for '#': %+v", obj)
	}
	if len(general.Palettes) != 1 {
		t.Errorf("expected 1 included palette, got %d", len(general.Palettes))
	}

	plumbing := palettes["house_plumbing"]
	if plumbing == nil {
		t.Fatal("house_plumbing not loaded")
	}
	if _, ok := plumbing.Toilets["T"]; !ok {
		t.Error("toilet entry for 'T' missing")
	}
}

func TestLoadDirectorySkipsMalformedDocuments(t *testing.T) {
	dir := t.TempDir()

	// One good document, one without an id, one that is not an object.
	mixed := `[
	  {"type": "palette", "id": "good", "terrain": {".": "t_dirt"}},
	  {"type": "palette", "terrain": {".": "t_dirt"}},
	  "not a palette"
	]`
	if err := os.WriteFile(filepath.Join(dir, "mixed.json"), []byte(mixed), 0644); err != nil {
		t.Fatal(err)
	}
	// A file that is not a document list at all.
	if err := os.WriteFile(filepath.Join(dir, "scalar.json"), []byte(`{"not": "a list"}`), 0644); err != nil {
		t.Fatal(err)
	}
	// Non-JSON files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	palettes, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(palettes) != 1 {
		t.Fatalf("expected only the good palette, got %d", len(palettes))
	}
	if _, ok := palettes["good"]; !ok {
		t.Error("good palette missing")
	}
}

func TestLoadDirectoryMissing(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
