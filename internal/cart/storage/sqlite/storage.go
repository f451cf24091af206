// Package sqlite provides a SQLite-backed implementation of app.Storage.
//
// The table mirrors browser local storage: one TEXT value per key, replaced
// wholesale on every write.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_storage (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL,

    updated_at  TEXT NOT NULL
);
`

// timeLayout is how updated_at is stored. UTC, so values sort as text.
const timeLayout = time.RFC3339Nano

// Storage is the SQLite implementation of app.Storage.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	st, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Get returns the value under key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM local_storage WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set replaces the value under key.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, key, string(value), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite: set %q: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when key was last written. A missing key reports
// ok=false.
func (s *Storage) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	const q = `SELECT updated_at FROM local_storage WHERE key = ?`

	var raw string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlite: updated_at %q: %w", key, err)
	}

	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlite: updated_at %q: bad timestamp %q: %w", key, raw, err)
	}
	return t, true, nil
}
