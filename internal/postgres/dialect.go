package postgres

import "fmt"

// dialect compiles the portable query expressions to PostgreSQL SQL.
type dialect struct{}

func (dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (dialect) YearOf(col string) string {
	return fmt.Sprintf("EXTRACT(YEAR FROM %s)::int", col)
}

func (dialect) DateOf(col string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", col)
}

func (dialect) TimeOf(col string) string {
	return fmt.Sprintf("to_char(%s, 'HH24:MI:SS')", col)
}

// DurationMinutes uses bigint division, which truncates toward zero.
func (dialect) DurationMinutes(startCol, endCol string) string {
	return fmt.Sprintf("(EXTRACT(EPOCH FROM (%s - %s))::bigint / 60)", endCol, startCol)
}

// AvgRounded rounds half away from zero (PostgreSQL numeric ROUND), matching
// the SQLite dialect.
func (dialect) AvgRounded(arg string) string {
	return fmt.Sprintf("ROUND(AVG(%s))::int", arg)
}
