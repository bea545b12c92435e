// Package database owns the Postgres pool behind the user and team stores
// and the schema those stores expect.
package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags roster sessions in pg_stat_activity.
const applicationName = "roster"

//go:embed schema.sql
var schema string

// ErrUnreachable marks failures to reach the server, as opposed to a bad
// URL or a schema that could not be applied once connected.
var ErrUnreachable = errors.New("database unreachable")

// DB is the roster's Postgres handle. Repositories share its pool.
type DB struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL, checks the connection and applies the
// roster schema. The pool is closed again if any step fails.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	poolCfg, err := poolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func poolConfig(databaseURL string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return cfg, nil
}

// migrate applies schema.sql. Every statement is idempotent, so it runs on
// each start.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Ping reports whether the server still answers; it backs the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Pool returns the pool for the user and team repositories.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}
