package localcache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps cache entries in a single table of a local database file.
type SQLite struct {
	database *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	slog.Debug("opening local cache", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS entries (
		key text not null primary key,
		value text not null
		)`,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create entries table: %w", err)
	}
	return &SQLite{database: db}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	if err := s.database.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query entry: %w", err)
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	if _, err := s.database.Exec(
		`INSERT INTO entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.database.Close()
}
