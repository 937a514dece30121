// Package source defines the contract between the analysis pipeline and the
// tabular store it queries: a declarative Query, the Source interface that
// executes one, and the error kinds adapters report.
package source

import (
	"context"
	"errors"

	"cyclehire/internal/table"
)

// Source executes declarative queries against a tabular store and returns
// materialized result sets. Implementations do not retry; a caller may retry
// on ErrUnavailable if it chooses to.
type Source interface {
	Fetch(ctx context.Context, q Query) (*table.Table, error)
	Close() error
}

var (
	// ErrUnavailable is returned when the store cannot be reached or opened.
	// Transient: callers may retry.
	ErrUnavailable = errors.New("source unavailable")

	// ErrBadQuery is returned for a malformed request: an unknown column or
	// table, or an invalid predicate. Not retryable.
	ErrBadQuery = errors.New("malformed query")
)
