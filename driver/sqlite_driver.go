package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"visitboard/domain"
)

const counterSchema = `
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
)`

const incrementQuery = `
INSERT INTO counters (name, value) VALUES (?, 1)
ON CONFLICT(name) DO UPDATE SET value = value + 1
RETURNING value`

// SQLiteDriver implements CounterPort on a local SQLite file. It is meant for
// running the site without a Redis server.
type SQLiteDriver struct {
	db *sql.DB
}

// NewSQLiteDriver opens (or creates) the database at path and ensures the schema.
func NewSQLiteDriver(ctx context.Context, path string) (*SQLiteDriver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Writers serialize in SQLite anyway; one connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, counterSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init counter schema: %w", err)
	}

	return &SQLiteDriver{db: db}, nil
}

// Incr increments the counter row and returns the new value.
func (d *SQLiteDriver) Incr(ctx context.Context, key domain.CounterKey) (int64, error) {
	var value int64
	if err := d.db.QueryRowContext(ctx, incrementQuery, key.String()).Scan(&value); err != nil {
		return 0, classifySQLiteError(err)
	}
	return value, nil
}

// Ping checks that the database file is usable.
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return classifySQLiteError(err)
	}
	return nil
}

// Close closes the database.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

func classifySQLiteError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}
	return err
}
