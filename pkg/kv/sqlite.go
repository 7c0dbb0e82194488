package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	database *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	slog.Info("opening database", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS stores (
		id text not null primary key,
		content text not null
		)`,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create stores table: %w", err)
	}
	return &SQLite{database: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var content string
	if err := s.database.QueryRowContext(ctx, `SELECT content FROM stores WHERE id = ?`, key).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	return []byte(content), nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.database.ExecContext(
		ctx, `INSERT INTO stores (id, content) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET content = excluded.content`,
		key, string(value),
	); err != nil {
		return fmt.Errorf("failed to persist: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.database.Close()
}
