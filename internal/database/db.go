// Package database provides SQLite connection management and migrations for
// the league cache.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Pool sizes used when the caller passes zero.
const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 3
)

// Options tunes a connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// New opens a read-write connection to the cache file. Used by the ingestion
// job and for migrations.
func New(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// NewReadOnly opens the read-only pool used by the chat pipeline.
// Every fetch borrows a connection for one query and returns it, so the pool
// never holds a connection across an LLM call.
func NewReadOnly(path string, opts Options) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read-only database: %w", err)
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping read-only database: %w", err)
	}

	return conn, nil
}
