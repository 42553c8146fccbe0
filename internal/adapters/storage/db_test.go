package storage

import (
	"context"
	"testing"
)

// TestOpenSQLite_CreatesCredentialTable verifies the schema is created and usable.
func TestOpenSQLite_CreatesCredentialTable(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	_, err = db.ExecContext(context.Background(),
		"INSERT INTO credential (key, value, updated_at) VALUES (?, ?, ?)", "userToken", "abc", "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	var value string
	if err := db.QueryRow("SELECT value FROM credential WHERE key = ?", "userToken").Scan(&value); err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != "abc" {
		t.Errorf("value = %q, want abc", value)
	}
}

// TestInitDB_Idempotent verifies InitDB can run twice on the same database.
func TestInitDB_Idempotent(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	if err := InitDB(db); err != nil {
		t.Errorf("second InitDB: %v", err)
	}
}
