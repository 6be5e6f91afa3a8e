// Package store persists a project's declared globals in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

// ErrProjectNotFound indicates no globals were ever saved for a project.
var ErrProjectNotFound = errors.New("project not found")

var log = commonlog.GetLogger("blockvars.store")

// Store handles SQLite storage for declared globals, keyed by project.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Create tables if needed. A project row exists once globals were saved,
	// even if the list was empty.
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS declared_globals (
		project TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (project, position)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Infof("opened globals store %s", dbPath)
	return &Store{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the stored globals of a project with decls, in order.
func (s *Store) Save(project string, decls []scope.Declaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving globals: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR REPLACE INTO projects (name) VALUES (?)", project); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM declared_globals WHERE project = ?", project); err != nil {
		return fmt.Errorf("clearing globals: %w", err)
	}
	for i, d := range decls {
		_, err := tx.Exec(
			"INSERT INTO declared_globals (project, position, name, type) VALUES (?, ?, ?, ?)",
			project, i, d.Name, string(d.Type),
		)
		if err != nil {
			return fmt.Errorf("saving global %q: %w", d.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving globals: %w", err)
	}

	log.Infof("saved %d globals for project %q", len(decls), project)
	return nil
}

// Globals returns the stored globals of a project in saved order.
func (s *Store) Globals(project string) ([]scope.Declaration, error) {
	var name string
	err := s.db.QueryRow("SELECT name FROM projects WHERE name = ?", project).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT name, type FROM declared_globals WHERE project = ? ORDER BY position",
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("querying globals: %w", err)
	}
	defer rows.Close()

	decls := []scope.Declaration{}
	for rows.Next() {
		var d scope.Declaration
		var typ string
		if err := rows.Scan(&d.Name, &typ); err != nil {
			return nil, fmt.Errorf("scanning global: %w", err)
		}
		t, err := vartype.Parse(typ)
		if err != nil {
			log.Warningf("project %q: skipping global %q: %v", project, d.Name, err)
			continue
		}
		d.Type = t
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// Load adds the stored globals of a project to into and returns how many
// were new.
func (s *Store) Load(project string, into *scope.Declarations) (int, error) {
	decls, err := s.Globals(project)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, d := range decls {
		if into.Add(d.Name, d.Type) {
			added++
		}
	}
	return added, nil
}

// Projects lists every project with saved globals.
func (s *Store) Projects() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a project and its globals.
func (s *Store) Delete(project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM projects WHERE name = ?", project)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	if _, err := tx.Exec("DELETE FROM declared_globals WHERE project = ?", project); err != nil {
		return fmt.Errorf("deleting globals: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	log.Infof("deleted project %q", project)
	return nil
}
