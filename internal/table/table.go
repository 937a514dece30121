// Package table holds materialized query results: a fixed set of named
// columns and rows of driver-native values. Transforms check column presence
// here before decoding, so a schema mismatch surfaces as ErrMissingColumn
// instead of a bad scan deep inside a loop.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a
	// fetched table.
	ErrMissingColumn = errors.New("missing column")

	// ErrColumnType is returned when a column value cannot be read as the
	// requested type.
	ErrColumnType = errors.New("unexpected column type")
)

// Table is an immutable materialized result set.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New builds a table from column names and rows. Row widths must match the
// column count.
func New(cols []string, rows [][]any) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(r), len(cols))
		}
	}
	return &Table{cols: cols, index: index, rows: rows}, nil
}

// Columns returns the column names in result order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Require checks that every named column is present.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	return nil
}

func (t *Table) value(row int, col string) (any, error) {
	i, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return t.rows[row][i], nil
}

// Int reads an integer value. Integral floats are accepted because some
// engines report aggregate results as floating point.
func (t *Table) Int(row int, col string) (int64, error) {
	v, err := t.value(row, col)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is %T, want integer", ErrColumnType, col, v)
}

// NullInt reads an integer value that may be NULL.
func (t *Table) NullInt(row int, col string) (*int64, error) {
	v, err := t.value(row, col)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	n, err := t.Int(row, col)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// String reads a text value.
func (t *Table) String(row int, col string) (string, error) {
	v, err := t.value(row, col)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("%w: %q is %T, want text", ErrColumnType, col, v)
}

// Float reads a numeric value as float64.
func (t *Table) Float(row int, col string) (float64, error) {
	v, err := t.value(row, col)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %q is %T, want numeric", ErrColumnType, col, v)
}
