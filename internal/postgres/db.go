// Package postgres is the PostgreSQL backend for the data source contract,
// for datasets too large for a local SQLite file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	*sql.DB
}

var _ source.Source = (*DB)(nil)

// Open connects to the database at dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", source.ErrUnavailable, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
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
