package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"cyclehire/internal/source"
)

// classify maps driver errors onto the source error taxonomy. SQLite reports
// errors as flat strings, so this matches on the stable message prefixes.
func classify(err error) error {
	if err == nil || errors.Is(err, source.ErrBadQuery) || errors.Is(err, source.ErrUnavailable) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "no such column"),
		strings.Contains(msg, "syntax error"),
		strings.Contains(msg, "misuse of"):
		return fmt.Errorf("%w: %v", source.ErrBadQuery, err)
	case strings.Contains(msg, "unable to open database"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "disk I/O error"):
		return fmt.Errorf("%w: %v", source.ErrUnavailable, err)
	}
	return err
}
