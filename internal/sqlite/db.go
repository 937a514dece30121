// Package sqlite is the embedded SQLite backend for the data source
// contract. It is also the fixture backend for tests: the full pipeline runs
// against an in-memory database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

var _ source.Source = (*DB)(nil)

// New opens a SQLite database at the given path (":memory:" for an
// in-memory database).
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", source.ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", source.ErrUnavailable, err)
	}
	return &DB{db}, nil
}

// Fetch executes a declarative query and materializes the result.
func (db *DB) Fetch(ctx context.Context, q source.Query) (*table.Table, error) {
	tbl, err := source.Run(ctx, db.DB, dialect{}, q)
	if err != nil {
		return nil, classify(err)
	}
	return tbl, nil
}

// CreateSchema creates the trips and stations tables. Intended for seeding a
// fresh database and for tests.
func (db *DB) CreateSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS stations (
    station_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    latitude REAL,
    longitude REAL
);

CREATE TABLE IF NOT EXISTS trips (
    bike_id INTEGER NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP NOT NULL,
    start_station_id INTEGER NOT NULL,
    start_station_name TEXT NOT NULL,
    end_station_id INTEGER NOT NULL,
    end_station_name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trips_started_at ON trips(started_at);
CREATE INDEX IF NOT EXISTS idx_trips_start_station ON trips(start_station_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
