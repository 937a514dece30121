package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"cyclehire/internal/source"
)

// classify maps driver errors onto the source error taxonomy. Errors the
// server parsed and rejected are query errors; connection-level failures are
// transient.
func classify(err error) error {
	if err == nil || errors.Is(err, source.ErrBadQuery) || errors.Is(err, source.ErrUnavailable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 = connection exception, 53 = insufficient resources,
		// 57 = operator intervention, 58 = system error.
		switch {
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57"),
			strings.HasPrefix(pgErr.Code, "58"):
			return fmt.Errorf("%w: %v", source.ErrUnavailable, err)
		default:
			return fmt.Errorf("%w: %v", source.ErrBadQuery, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", source.ErrUnavailable, err)
	}
	return err
}
