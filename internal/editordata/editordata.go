// Package editordata provides SQLite-based persistence for the editor's
// own history: recently opened projects and the auto-save registry that
// lets the editor restore work at startup.
package editordata

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrProjectNotFound is returned when a history lookup fails.
var ErrProjectNotFound = errors.New("project not found in history")

// Store wraps the SQLite connection and provides history operations.
type Store struct {
	db *sql.DB
}

// Open opens or creates the editor history database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout to wait for locks instead of immediately failing
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	migrations := []string{
		// Projects the editor has opened, most recent first by opened_at
		`CREATE TABLE IF NOT EXISTS recent_projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			path TEXT UNIQUE NOT NULL,
			save_state TEXT NOT NULL DEFAULT 'not_saved',
			opened_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Auto-save files by map name so startup can offer restores
		`CREATE TABLE IF NOT EXISTS auto_saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_name TEXT UNIQUE NOT NULL,
			path TEXT NOT NULL,
			saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recent_projects_opened_at ON recent_projects(opened_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// RecentProject is one entry of the open-history list.
type RecentProject struct {
	ID        int64
	Name      string
	Path      string
	SaveState string
	OpenedAt  time.Time
}

// RecordOpen inserts or refreshes a project in the open history.
func (s *Store) RecordOpen(name, path, saveState string) error {
	name = strings.TrimSpace(name)
	if path == "" {
		return errors.New("project path cannot be empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO recent_projects (name, path, save_state, opened_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			save_state = excluded.save_state,
			opened_at = CURRENT_TIMESTAMP`,
		name, path, saveState,
	)
	if err != nil {
		return fmt.Errorf("failed to record project open: %w", err)
	}
	return nil
}

// RecentProjects returns the open history, most recent first, capped at
// limit entries.
func (s *Store) RecentProjects(limit int) ([]RecentProject, error) {
	rows, err := s.db.Query(
		`SELECT id, name, path, save_state, opened_at
		 FROM recent_projects
		 ORDER BY opened_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent projects: %w", err)
	}
	defer rows.Close()

	var projects []RecentProject
	for rows.Next() {
		var p RecentProject
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.SaveState, &p.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// RemoveRecent drops a project from the open history.
func (s *Store) RemoveRecent(path string) error {
	result, err := s.db.Exec("DELETE FROM recent_projects WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to remove recent project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// RecordAutoSave registers the auto-save file of a map.
func (s *Store) RecordAutoSave(mapName, path string) error {
	if mapName == "" {
		return errors.New("map name cannot be empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO auto_saves (map_name, path, saved_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(map_name) DO UPDATE SET
			path = excluded.path,
			saved_at = CURRENT_TIMESTAMP`,
		mapName, path,
	)
	if err != nil {
		return fmt.Errorf("failed to record auto save: %w", err)
	}
	return nil
}

// AutoSavePath returns the registered auto-save file of a map.
func (s *Store) AutoSavePath(mapName string) (string, error) {
	var path string
	err := s.db.QueryRow(
		"SELECT path FROM auto_saves WHERE map_name = ?", mapName,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query auto save: %w", err)
	}
	return path, nil
}

// RemoveAutoSave drops a map's auto-save registration.
func (s *Store) RemoveAutoSave(mapName string) error {
	if _, err := s.db.Exec("DELETE FROM auto_saves WHERE map_name = ?", mapName); err != nil {
		return fmt.Errorf("failed to remove auto save: %w", err)
	}
	return nil
}
