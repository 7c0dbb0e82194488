package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Postgres stores each key as a TEXT row so values come back byte for byte.
type Postgres struct {
	database *sql.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create stores table: %w", err)
	}
	// tables created before the switch away from JSONB
	if _, err := db.ExecContext(ctx, `ALTER TABLE stores ALTER COLUMN content TYPE TEXT USING content::text`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate stores table: %w", err)
	}
	return &Postgres{database: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	if err := p.database.QueryRowContext(ctx, `SELECT content FROM stores WHERE id = $1`, key).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	return content, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.database.ExecContext(
		ctx, `INSERT INTO stores (id, content) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET content = excluded.content`,
		key, string(value),
	); err != nil {
		return fmt.Errorf("failed to persist: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.database.Close()
}
