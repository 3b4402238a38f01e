// Package config loads the editor's settings from a YAML file, with
// sensible defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EditorConfig holds the editor-wide configuration settings.
type EditorConfig struct {
	CDDA     CDDAConfig     `yaml:"cdda"`
	AutoSave AutoSaveConfig `yaml:"auto_save"`
	History  HistoryConfig  `yaml:"history"`

	// Seed drives every weighted pick during parameter resolution and
	// sprite selection. The same seed reproduces the same map.
	Seed int64 `yaml:"seed"`
}

// CDDAConfig locates the game installation the editor reads data from.
type CDDAConfig struct {
	// Directory is the root of the game installation.
	Directory string `yaml:"directory"`

	// Tileset is the name of the tileset directory under gfx/ to load.
	Tileset string `yaml:"tileset"`
}

// AutoSaveConfig holds the periodic auto-save settings.
type AutoSaveConfig struct {
	// Enabled turns periodic auto-saving on.
	Enabled bool `yaml:"enabled"`

	// IntervalSeconds is the delay between auto-saves.
	IntervalSeconds int `yaml:"interval_seconds"`

	// Directory overrides where auto-save files go. Empty means the
	// per-user default directory.
	Directory string `yaml:"directory"`
}

// HistoryConfig holds the settings of the recently-opened list.
type HistoryConfig struct {
	// MaxRecent caps the recently-opened project list.
	MaxRecent int `yaml:"max_recent"`

	// DatabasePath overrides where the history database lives. Empty
	// means next to the config file.
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns an EditorConfig with usable defaults.
func DefaultConfig() *EditorConfig {
	return &EditorConfig{
		CDDA: CDDAConfig{
			// Directory must be configured before game data loads.
			Directory: "",
			Tileset:   "MSX++DEAD_PEOPLE_12",
		},
		AutoSave: AutoSaveConfig{
			Enabled:         true,
			IntervalSeconds: 120,
		},
		History: HistoryConfig{
			MaxRecent: 10,
		},
		Seed: 1,
	}
}

// LoadConfig loads editor configuration from a YAML file.
// If the file doesn't exist or can't be parsed, returns default config.
func LoadConfig(path string) (*EditorConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Save writes the configuration back to a YAML file.
func (c *EditorConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DataJSONDir returns the game's JSON data directory, where palettes and
// mapgen definitions live.
func (c *CDDAConfig) DataJSONDir() string {
	return filepath.Join(c.Directory, "data", "json")
}

// GfxDir returns the directory of the configured tileset.
func (c *CDDAConfig) GfxDir() string {
	return filepath.Join(c.Directory, "gfx", c.Tileset)
}

// Validate reports whether the game installation looks usable.
func (c *CDDAConfig) Validate() error {
	if c.Directory == "" {
		return fmt.Errorf("game directory is not configured")
	}
	info, err := os.Stat(c.DataJSONDir())
	if err != nil || !info.IsDir() {
		return fmt.Errorf("game data directory %s not found", c.DataJSONDir())
	}
	return nil
}
