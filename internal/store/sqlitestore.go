package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // sqlite driver

	"quill/internal/logger"
)

// SQLiteStore keeps settings in a single-table SQLite database, for
// installations that store preferences alongside the project database.
// Writes are durable immediately; Save is a no-op.
type SQLiteStore struct {
	db *sql.DB
}

const settingsSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// OpenSQLiteStore opens (creating if needed) the settings database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("settings database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping settings db: %w", err)
	}
	if _, err := db.Exec(settingsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create settings schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetString returns the string value for key, or def when absent.
func (s *SQLiteStore) GetString(key, def string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Warn("Settings read failed", "key", key, "error", err)
		}
		return def
	}
	return value
}

// GetInt returns the int value for key, or def when absent or non-numeric.
func (s *SQLiteStore) GetInt(key string, def int) int {
	raw := s.GetString(key, "")
	if raw == "" {
		return def
	}
	if n, ok := intify(raw); ok {
		return n
	}
	return def
}

// Set stores a value under key, serialized to its string form.
func (s *SQLiteStore) Set(key string, value any) {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, stringify(value),
	)
	if err != nil {
		logger.Warn("Settings write failed", "key", key, "error", err)
	}
}

// Remove deletes key if present.
func (s *SQLiteStore) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		logger.Warn("Settings delete failed", "key", key, "error", err)
	}
}

// Has reports whether key is present.
func (s *SQLiteStore) Has(key string) bool {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM settings WHERE key = ?`, key).Scan(&one)
	return err == nil
}

// Save is a no-op: SQLite writes are durable as they happen.
func (s *SQLiteStore) Save() error {
	return nil
}
