package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"cyclehire/internal/source"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"connection failure", &pgconn.PgError{Code: "08006"}, source.ErrUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, source.ErrUnavailable},
		{"shutdown", &pgconn.PgError{Code: "57P01"}, source.ErrUnavailable},
		{"undefined column", &pgconn.PgError{Code: "42703"}, source.ErrBadQuery},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, source.ErrBadQuery},
		{"syntax error", &pgconn.PgError{Code: "42601"}, source.ErrBadQuery},
		{"deadline", context.DeadlineExceeded, source.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassify_WrappedPgError(t *testing.T) {
	err := fmt.Errorf("fetching: %w", &pgconn.PgError{Code: "42703"})
	require.ErrorIs(t, classify(err), source.ErrBadQuery)
}

func TestClassify_AlreadyClassified(t *testing.T) {
	err := fmt.Errorf("%w: database is gone", source.ErrUnavailable)
	require.Same(t, err, classify(err))
}

func TestClassify_UnknownErrorPassesThrough(t *testing.T) {
	err := errors.New("something else")
	require.Same(t, err, classify(err))
}
