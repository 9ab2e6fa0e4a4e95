package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"momentlog/internal/journal"
	"momentlog/internal/storage/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface on a single-table SQLite
// database: one row per namespace. An upsert of one row is atomic, which is
// exactly the single-namespace guarantee the contract asks for.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (and migrates, if needed) a snapshot database.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating snapshot database: %w", err)
	}
	if err := migrations.CheckStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot database schema out of date: %w", err)
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection.
// This is exported for tests that need a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Wait for locks instead of failing when another invocation holds the file.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Put stores data under the namespace, replacing any previous value.
func (s *SQLiteStorage) Put(namespace string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO snapshots (namespace, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		namespace, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// Get returns the data stored under the namespace, or (nil, nil) if the
// namespace has never been written.
func (s *SQLiteStorage) Get(namespace string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE namespace = ?", namespace).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// Delete removes the namespace. Deleting an absent namespace is a no-op.
func (s *SQLiteStorage) Delete(namespace string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStorage implements journal.Storage
var _ journal.Storage = (*SQLiteStorage)(nil)
