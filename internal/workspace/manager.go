// Package workspace persists task sets between CLI invocations. Each
// workspace is its own SQLite database under a base directory.
package workspace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// schema is applied on every open; statements are idempotent.
const schema = `
PRAGMA journal_mode=WAL;

-- Tasks in display order
CREATE TABLE IF NOT EXISTS tasks (
    position        INTEGER PRIMARY KEY,
    id              INTEGER NOT NULL UNIQUE,
    title           TEXT NOT NULL,
    due_date        TEXT NOT NULL,
    estimated_hours INTEGER NOT NULL CHECK (estimated_hours >= 1),
    importance      INTEGER NOT NULL CHECK (importance BETWEEN 1 AND 10),
    dependencies    TEXT NOT NULL DEFAULT '[]'
);

-- Workspace counters
CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const dbExt = ".db"

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateName checks that name can be used as a workspace file name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid workspace name %q: use letters, digits, '.', '_' or '-'", name)
	}
	return nil
}

// Manager hands out one database connection per workspace.
type Manager struct {
	basePath string
	dbs      map[string]*sql.DB
	mu       sync.RWMutex
}

// NewManager creates a Manager rooted at basePath (e.g. ~/.prio/workspaces).
func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return &Manager{
		basePath: basePath,
		dbs:      make(map[string]*sql.DB),
	}, nil
}

// Path returns the database file of a workspace.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.basePath, name+dbExt)
}

// DB returns the connection for a workspace, opening it on first use.
func (m *Manager) DB(name string) (*sql.DB, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if db, ok := m.dbs[name]; ok {
		m.mu.RUnlock()
		return db, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return db, nil
	}

	db, err := sql.Open("sqlite3", m.Path(name)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %s: %w", name, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize workspace %s: %w", name, err)
	}

	m.dbs[name] = db
	return db, nil
}

// Open returns a Repository for the named workspace.
func (m *Manager) Open(name string) (*Repository, error) {
	db, err := m.DB(name)
	if err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}

// List returns the names of existing workspaces.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == dbExt {
			names = append(names, name[:len(name)-len(dbExt)])
		}
	}
	return names, nil
}

// Close closes all open connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", name, err))
		}
	}
	m.dbs = make(map[string]*sql.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing workspaces: %v", errs)
	}
	return nil
}
