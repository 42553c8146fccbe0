package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB initializes the credential schema.
// PRE: db is a valid database connection
// POST: credential table exists; WAL mode enabled for file databases
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=2000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS credential (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// OpenSQLite opens the SQLite file at path and initializes the schema.
// ":memory:" opens a private in-memory database.
// PRE: path is non-empty
// POST: Returns an open, initialized database or an error
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
