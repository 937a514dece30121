package sqlite

import "fmt"

// dialect compiles the portable query expressions to SQLite SQL. Timestamps
// are stored as "YYYY-MM-DD HH:MM:SS" text, which the date/time functions
// accept directly.
type dialect struct{}

func (dialect) Placeholder(n int) string { return "?" }

func (dialect) YearOf(col string) string {
	return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
}

func (dialect) DateOf(col string) string { return fmt.Sprintf("date(%s)", col) }

func (dialect) TimeOf(col string) string { return fmt.Sprintf("time(%s)", col) }

// DurationMinutes subtracts epoch seconds and divides by 60; integer
// division truncates, which is the required floor-minutes semantics.
func (dialect) DurationMinutes(startCol, endCol string) string {
	return fmt.Sprintf(
		"(CAST(strftime('%%s', %s) AS INTEGER) - CAST(strftime('%%s', %s) AS INTEGER)) / 60",
		endCol, startCol,
	)
}

// AvgRounded rounds half away from zero (SQLite's ROUND convention).
func (dialect) AvgRounded(arg string) string {
	return fmt.Sprintf("CAST(ROUND(AVG(%s), 0) AS INTEGER)", arg)
}
