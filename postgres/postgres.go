// Package postgres provides PostgreSQL-based storage implementations for
// govvideo services.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMaxConns caps the pool size. Crawls are sequential, so a small
// pool is enough.
const DefaultMaxConns = 4

// IsDSN reports whether s names a PostgreSQL connection rather than a
// file path.
func IsDSN(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
	dsn  string

	// SimpleProtocol disables prepared statements, for use behind
	// transaction-pooling bouncers.
	SimpleProtocol bool
}

// NewDB creates a new DB instance for the given connection string.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn}
}

// Open connects to the database and creates the schema if needed.
func (db *DB) Open(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse dsn: %w", err)
	}
	cfg.MaxConns = DefaultMaxConns
	if db.SimpleProtocol {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.pool = pool

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS clients (
		slug TEXT PRIMARY KEY,
		video_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS videos (
		site_slug TEXT NOT NULL,
		video_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		video_date DATE,
		duration TEXT,
		video_uuid TEXT,
		hls_url TEXT,
		download_url TEXT NOT NULL,
		agenda_url TEXT,
		raw_payload JSONB NOT NULL DEFAULT '{}',
		payload_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (site_slug, video_id)
	);

	CREATE INDEX IF NOT EXISTS idx_videos_site_date ON videos(site_slug, video_date);

	CREATE TABLE IF NOT EXISTS scrape_progress (
		site_slug TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		status TEXT NOT NULL,
		records_scraped INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (site_slug, endpoint)
	);
`
