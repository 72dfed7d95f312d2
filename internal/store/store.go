package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS game_states (
		identity   TEXT PRIMARY KEY,
		credits    INTEGER NOT NULL DEFAULT 0,
		interests  TEXT NOT NULL DEFAULT '[]',
		progress   TEXT NOT NULL DEFAULT '{}',
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS game_states_credits ON game_states (credits)`,
	`CREATE TABLE IF NOT EXISTS goodie_claims (
		id         TEXT PRIMARY KEY,
		identity   TEXT NOT NULL,
		goodie_id  INTEGER NOT NULL,
		claimed_at INTEGER NOT NULL,
		UNIQUE (identity, goodie_id)
	)`,
}

// Store holds the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

var _ Backend = (*Store)(nil)

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	for _, stmt := range sqliteSchema {
		if err := drv.Exec(context.Background(), stmt, []any{}, nil); err != nil {
			drv.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// GameStateRepo returns a GameStateRepo backed by this store.
func (s *Store) GameStateRepo() GameStateRepo {
	return &gameStateRepo{drv: s.drv}
}

// ClaimRepo returns a ClaimRepo backed by this store.
func (s *Store) ClaimRepo() ClaimRepo {
	return &claimRepo{drv: s.drv}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LEARNQUEST_DB environment variable
// 2. $XDG_DATA_HOME/learnquest/learnquest.db
// 3. ~/.local/share/learnquest/learnquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEARNQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "learnquest", "learnquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
