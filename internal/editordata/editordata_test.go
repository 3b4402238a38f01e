package editordata

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "editor.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordOpenAndRecentProjects(t *testing.T) {
	s := openTestStore(t)

	opens := []struct {
		name, path, state string
	}{
		{"house", "/maps/house.map", "saved"},
		{"field", "/maps/field.map", "not_saved"},
		{"shed", "/maps/shed.map", "auto_saved"},
	}
	for _, o := range opens {
		if err := s.RecordOpen(o.name, o.path, o.state); err != nil {
			t.Fatalf("RecordOpen(%q): %v", o.path, err)
		}
	}

	got, err := s.RecentProjects(10)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 recent projects, got %d", len(got))
	}
	// Most recent first.
	if got[0].Path != "/maps/shed.map" || got[2].Path != "/maps/house.map" {
		t.Errorf("wrong order: first %q last %q", got[0].Path, got[2].Path)
	}
	if got[0].Name != "shed" || got[0].SaveState != "auto_saved" {
		t.Errorf("wrong fields: %+v", got[0])
	}
}

func TestRecordOpenRefreshesExisting(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordOpen("house", "/maps/house.map", "not_saved"); err != nil {
		t.Fatalf("RecordOpen: %v", err)
	}
	if err := s.RecordOpen("field", "/maps/field.map", "saved"); err != nil {
		t.Fatalf("RecordOpen: %v", err)
	}
	// Re-opening the first project moves it to the front and updates its
	// save state.
	if err := s.RecordOpen("house", "/maps/house.map", "saved"); err != nil {
		t.Fatalf("RecordOpen again: %v", err)
	}

	got, err := s.RecentProjects(10)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after re-open, got %d", len(got))
	}
	if got[0].Path != "/maps/house.map" || got[0].SaveState != "saved" {
		t.Errorf("re-opened project not refreshed: %+v", got[0])
	}
}

func TestRecentProjectsLimit(t *testing.T) {
	s := openTestStore(t)

	paths := []string{"/a.map", "/b.map", "/c.map", "/d.map"}
	for _, p := range paths {
		if err := s.RecordOpen("m", p, "saved"); err != nil {
			t.Fatalf("RecordOpen(%q): %v", p, err)
		}
	}

	got, err := s.RecentProjects(2)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	if got[0].Path != "/d.map" {
		t.Errorf("expected most recent /d.map first, got %q", got[0].Path)
	}
}

func TestRemoveRecent(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordOpen("house", "/maps/house.map", "saved"); err != nil {
		t.Fatalf("RecordOpen: %v", err)
	}
	if err := s.RemoveRecent("/maps/house.map"); err != nil {
		t.Fatalf("RemoveRecent: %v", err)
	}
	got, err := s.RecentProjects(10)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d entries", len(got))
	}

	if err := s.RemoveRecent("/maps/house.map"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestRecordOpenEmptyPath(t *testing.T) {
	s := openTestStore(t)
	if err := s.RecordOpen("house", "", "saved"); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestAutoSaveRegistry(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordAutoSave("house", "/autosaves/auto_save_house.map"); err != nil {
		t.Fatalf("RecordAutoSave: %v", err)
	}

	path, err := s.AutoSavePath("house")
	if err != nil {
		t.Fatalf("AutoSavePath: %v", err)
	}
	if path != "/autosaves/auto_save_house.map" {
		t.Errorf("wrong path %q", path)
	}

	// Re-recording replaces the path.
	if err := s.RecordAutoSave("house", "/elsewhere/auto_save_house.map"); err != nil {
		t.Fatalf("RecordAutoSave again: %v", err)
	}
	path, err = s.AutoSavePath("house")
	if err != nil {
		t.Fatalf("AutoSavePath after update: %v", err)
	}
	if path != "/elsewhere/auto_save_house.map" {
		t.Errorf("path not replaced, got %q", path)
	}

	if err := s.RemoveAutoSave("house"); err != nil {
		t.Fatalf("RemoveAutoSave: %v", err)
	}
	if _, err := s.AutoSavePath("house"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound after removal, got %v", err)
	}
}

func TestAutoSavePathUnknownMap(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AutoSavePath("nope"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "editor.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordOpen("house", "/maps/house.map", "saved"); err != nil {
		t.Fatalf("RecordOpen: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.RecentProjects(10)
	if err != nil {
		t.Fatalf("RecentProjects: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/maps/house.map" {
		t.Errorf("history did not survive reopen: %+v", got)
	}
}
