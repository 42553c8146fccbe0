package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coachdesk/internal/adapters/storage"
)

// SQLiteKV implements KV using the credential table.
type SQLiteKV struct {
	db storage.SQLDB
}

var _ KV = (*SQLiteKV)(nil)

// NewSQLiteKV creates a SQLite-backed KV.
// PRE: db has the credential schema (storage.InitDB)
func NewSQLiteKV(db storage.SQLDB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the value stored under key.
// PRE: key is non-empty
// POST: found is false when no row exists
// INVARIANT: Store state is not mutated
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credential WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get credential %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key.
// PRE: key is non-empty
// POST: value is persisted; last write wins
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credential (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save credential %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
// POST: no row for key exists; deleting an absent key succeeds
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credential WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete credential %s: %w", key, err)
	}
	return nil
}
