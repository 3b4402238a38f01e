package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
)

var (
	// ErrNoAutoSave means no auto-save exists for the requested map.
	ErrNoAutoSave = errors.New("no auto save")

	// ErrDirectoryNotFound means a save or auto-save directory is missing.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrParse means a project file could not be decoded.
	ErrParse = errors.New("project parse error")
)

// appDirName is the editor's directory under the platform config root.
const appDirName = "cdda-map-editor"

// DefaultAutoSaveDir returns the platform's per-user auto-save directory,
// creating it when absent.
func DefaultAutoSaveDir() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryNotFound, err)
	}
	dir := filepath.Join(root, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("auto save directory %s: %w", dir, err)
	}
	return dir, nil
}

// Save writes a project to an explicit path and marks it Saved there.
func Save(p *Project, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
	}

	p.SaveState = SaveState{Kind: Saved, Path: path}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	logger.Info("saved project", "name", p.Name, "path", path)
	return nil
}

// Load reads a project from an explicit path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return &p, nil
}

// AutoSaver reads and writes auto-saves in one directory, one file per map
// named auto_save_<om_terrain>.map.
type AutoSaver struct {
	Directory string
}

// NewAutoSaver creates an auto-saver over an existing directory.
func NewAutoSaver(directory string) (*AutoSaver, error) {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, directory)
	}
	return &AutoSaver{Directory: directory}, nil
}

// path returns the auto-save file for a map name.
func (s *AutoSaver) path(mapName string) string {
	return filepath.Join(s.Directory, fmt.Sprintf("auto_save_%s.map", mapName))
}

// Save writes a project's auto-save and marks the project AutoSaved.
func (s *AutoSaver) Save(p *Project) error {
	path := s.path(p.MapEntity.Name())
	p.SaveState = SaveState{Kind: AutoSaved, Path: path}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write auto save %s: %w", path, err)
	}
	logger.Debug("auto saved project", "name", p.Name, "path", path)
	return nil
}

// Load restores the auto-save of a map, or ErrNoAutoSave when none exists.
func (s *AutoSaver) Load(mapName string) (*Project, error) {
	data, err := os.ReadFile(s.path(mapName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoAutoSave, mapName)
		}
		return nil, fmt.Errorf("read auto save %s: %w", mapName, err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: auto save %s: %v", ErrParse, mapName, err)
	}
	return &p, nil
}
