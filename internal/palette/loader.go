package palette

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
)

// LoadDirectory recurses a palette directory, parses every JSON file as a
// list of palette documents, and returns the global palette registry.
// Individual documents that fail to parse are skipped with a warning so one
// malformed mod file does not take down the whole load.
func LoadDirectory(root string) (Map, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("palette directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("palette path %s is not a directory", root)
	}

	palettes := make(Map)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var documents []json.RawMessage
		if err := json.Unmarshal(data, &documents); err != nil {
			logger.Warning("palette file is not a list of documents", "path", path, "error", err)
			return nil
		}

		for i, doc := range documents {
			var p Palette
			if err := json.Unmarshal(doc, &p); err != nil {
				logger.Warning("skipping malformed palette document", "path", path, "index", i, "error", err)
				continue
			}
			if p.ID == "" {
				logger.Warning("skipping palette document without id", "path", path, "index", i)
				continue
			}

			palettes[p.ID] = &p
			logger.Debug("loaded palette", "id", p.ID, "path", path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("loaded palettes", "count", len(palettes), "dir", root)
	return palettes, nil
}
