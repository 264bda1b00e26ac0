package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the shared database connection pool from a Postgres URL.
func InitDB(ctx context.Context, dbURL string) error {
	var err error
	once.Do(func() {
		if dbURL == "" {
			err = fmt.Errorf("database url not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the database connection pool, nil when InitDB was not called or failed.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS xbrl_statements (
	id         UUID PRIMARY KEY,
	filing     TEXT NOT NULL,
	query      TEXT NOT NULL,
	role_uri   TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL,
	data       JSONB NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (filing, query)
)`

// EnsureSchema creates the statements table when it does not exist.
func EnsureSchema(ctx context.Context, p *pgxpool.Pool) error {
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create xbrl_statements: %w", err)
	}
	return nil
}
