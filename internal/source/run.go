package source

import (
	"context"
	"database/sql"
	"fmt"

	"cyclehire/internal/table"
)

// Run compiles a query for the dialect, executes it on the connection, and
// materializes the result. Adapters wrap the returned error into their error
// taxonomy; Run itself only classifies compile failures (ErrBadQuery).
func Run(ctx context.Context, db *sql.DB, d Dialect, q Query) (*table.Table, error) {
	stmt, args, err := Compile(q, d)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scan(rows)
}

func scan(rows *sql.Rows) (*table.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		// []byte buffers are reused by drivers; keep text as string.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table.New(cols, out)
}
