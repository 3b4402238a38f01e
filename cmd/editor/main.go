package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/config"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/editor"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/editordata"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/palette"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/project"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/tileset"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/editor.yaml", "Path to editor config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	projectFile := flag.String("project", "", "Path to a saved project file to open")
	mapgenFile := flag.String("mapgen", "", "Path to a CDDA mapgen JSON file to import")
	omTerrain := flag.String("om-terrain", "", "Overmap terrain id to import from the mapgen file")
	newMap := flag.String("new", "", "Create a blank project with this overmap terrain id")
	seed := flag.Int64("seed", 0, "Resolution seed (default: from config)")
	cddaDir := flag.String("cdda", "", "Game installation directory (default: from config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting CDDA map editor")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load editor config, using defaults", "path", *configFile, "error", err)
	}
	if *cddaDir != "" {
		cfg.CDDA.Directory = *cddaDir
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.CDDA.Validate(); err != nil {
		log.Fatalf("Game installation not usable: %v", err)
	}

	rng := random.New(cfg.Seed)
	logger.Info("Resolution seed selected", "seed", cfg.Seed)

	// Load the shared palette registry
	palettes, err := palette.LoadDirectory(cfg.CDDA.DataJSONDir())
	if err != nil {
		log.Fatalf("Failed to load palettes: %v", err)
	}
	resolver := mapgen.NewResolver(palettes, rng)

	// Load the tileset
	ts, err := tileset.Load(cfg.CDDA.GfxDir(), rng)
	if err != nil {
		log.Fatalf("Failed to load tileset %s: %v", cfg.CDDA.GfxDir(), err)
	}
	logger.Info("Tileset loaded", "name", ts.Name, "sprites", ts.SpriteCount())

	// Open the editor history database
	historyPath := cfg.History.DatabasePath
	if historyPath == "" {
		historyPath = filepath.Join(filepath.Dir(*configFile), "editor.db")
	}
	history, err := editordata.Open(historyPath)
	if err != nil {
		log.Fatalf("Failed to open editor history: %v", err)
	}
	defer history.Close()

	ed := editor.New(resolver, ts)

	// Periodic auto-save
	var saver *project.AutoSaver
	if cfg.AutoSave.Enabled {
		dir := cfg.AutoSave.Directory
		if dir == "" {
			dir, err = project.DefaultAutoSaveDir()
			if err != nil {
				log.Fatalf("Failed to resolve auto-save directory: %v", err)
			}
		}
		saver, err = project.NewAutoSaver(dir)
		if err != nil {
			log.Fatalf("Failed to set up auto-save: %v", err)
		}
		logger.Info("Auto-save enabled", "dir", dir, "interval_seconds", cfg.AutoSave.IntervalSeconds)
	}

	p, openedPath, err := openProject(resolver, saver, *projectFile, *mapgenFile, *omTerrain, *newMap)
	if err != nil {
		log.Fatalf("Failed to open project: %v", err)
	}
	ed.AddProject(p)
	logger.Info("Project opened", "name", p.Name, "size", p.MapEntity.Width*p.MapEntity.Height)

	if openedPath != "" {
		if err := history.RecordOpen(p.Name, openedPath, p.SaveState.Kind.String()); err != nil {
			logger.Warning("Failed to record project in history", "error", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	intervalSeconds := cfg.AutoSave.IntervalSeconds
	if intervalSeconds <= 0 {
		intervalSeconds = 120
	}
	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if saver == nil {
				continue
			}
			current := ed.Current()
			if current == nil {
				continue
			}
			if err := saver.Save(current); err != nil {
				logger.Warning("Auto-save failed", "error", err)
				continue
			}
			if err := history.RecordAutoSave(current.Name, current.SaveState.Path); err != nil {
				logger.Warning("Failed to register auto-save", "error", err)
			}
			logger.Debug("Auto-saved project", "name", current.Name, "path", current.SaveState.Path)
		case <-sigChan:
			logger.Info("Shutting down editor")
			if saver != nil {
				if current := ed.Current(); current != nil {
					if err := saver.Save(current); err != nil {
						logger.Warning("Final auto-save failed", "error", err)
					}
				}
			}
			logger.Info("Editor stopped")
			return
		}
	}
}

// openProject builds the initial project from whichever source flag is set:
// a saved project file, an imported mapgen document, or a blank map. Blank
// maps restore from an earlier auto-save of the same overmap terrain when
// one exists.
func openProject(resolver *mapgen.Resolver, saver *project.AutoSaver, projectFile, mapgenFile, omTerrain, newMap string) (*project.Project, string, error) {
	switch {
	case projectFile != "":
		p, err := project.Load(projectFile)
		if err != nil {
			return nil, "", err
		}
		return p, projectFile, nil

	case mapgenFile != "":
		m, err := resolver.LoadFile(mapgenFile, omTerrain)
		if err != nil {
			return nil, "", err
		}
		return project.New(m), mapgenFile, nil

	default:
		name := newMap
		if name == "" {
			name = "unnamed"
		}
		if saver != nil {
			restored, err := saver.Load(name)
			if err == nil {
				logger.Info("Restored auto-saved project", "name", name, "path", restored.SaveState.Path)
				return restored, restored.SaveState.Path, nil
			}
			if !errors.Is(err, project.ErrNoAutoSave) {
				return nil, "", err
			}
		}
		return project.NewBlank(name, mapgen.OvermapTileSize, mapgen.OvermapTileSize), "", nil
	}
}
