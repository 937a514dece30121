package source

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect supplies the engine-specific SQL fragments the compiler cannot
// express portably.
type Dialect interface {
	// Placeholder returns the parameter marker for the nth argument (1-based).
	Placeholder(n int) string
	// YearOf returns SQL extracting the integer year of a timestamp column.
	YearOf(col string) string
	// DateOf returns SQL extracting the YYYY-MM-DD date of a timestamp column.
	DateOf(col string) string
	// TimeOf returns SQL extracting the HH:MM:SS time of a timestamp column.
	TimeOf(col string) string
	// DurationMinutes returns SQL for the truncated whole-minute duration
	// between two timestamp columns.
	DurationMinutes(startCol, endCol string) string
	// AvgRounded returns SQL for the mean of arg rounded to nearest integer.
	AvgRounded(arg string) string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdent(kind, name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid %s %q", ErrBadQuery, kind, name)
	}
	return nil
}

// Compile renders a Query to a SQL statement and its argument list for the
// given dialect. Structural problems (empty selection, bad identifiers,
// malformed windows) are reported as ErrBadQuery; semantic problems such as
// an unknown column are left to the engine.
func Compile(q Query, d Dialect) (string, []any, error) {
	if err := checkIdent("table", q.From); err != nil {
		return "", nil, err
	}
	if len(q.Select) == 0 {
		return "", nil, fmt.Errorf("%w: empty selection", ErrBadQuery)
	}

	var args []any
	var sb strings.Builder

	sb.WriteString("SELECT ")
	for i, sel := range q.Select {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := checkIdent("alias", sel.As); err != nil {
			return "", nil, err
		}
		s, err := compileExpr(sel.Expr, d)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(s)
		sb.WriteString(" AS ")
		sb.WriteString(sel.As)
	}

	sb.WriteString(" FROM ")
	sb.WriteString(q.From)

	if len(q.Where) > 0 {
		sb.WriteString(" WHERE ")
		for i, p := range q.Where {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			s, err := compilePred(p, d, &args)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(s)
		}
	}

	if len(q.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, e := range q.GroupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			s, err := compileExpr(e, d)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(s)
		}
	}

	if len(q.OrderBy) > 0 {
		s, err := compileOrderings(q.OrderBy, d)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s)
	}

	if q.Limit < 0 {
		return "", nil, fmt.Errorf("%w: negative limit %d", ErrBadQuery, q.Limit)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), args, nil
}

func compileExpr(e Expr, d Dialect) (string, error) {
	switch v := e.(type) {
	case Col:
		if err := checkIdent("column", v.Name); err != nil {
			return "", err
		}
		return v.Name, nil
	case Year:
		if err := checkIdent("column", v.Of); err != nil {
			return "", err
		}
		return d.YearOf(v.Of), nil
	case DateOf:
		if err := checkIdent("column", v.Of); err != nil {
			return "", err
		}
		return d.DateOf(v.Of), nil
	case TimeOf:
		if err := checkIdent("column", v.Of); err != nil {
			return "", err
		}
		return d.TimeOf(v.Of), nil
	case DurationMinutes:
		if err := checkIdent("column", v.Start); err != nil {
			return "", err
		}
		if err := checkIdent("column", v.End); err != nil {
			return "", err
		}
		return d.DurationMinutes(v.Start, v.End), nil
	case Count:
		return "COUNT(*)", nil
	case AvgRounded:
		arg, err := compileExpr(v.Arg, d)
		if err != nil {
			return "", err
		}
		return d.AvgRounded(arg), nil
	case Window:
		return compileWindow(v, d)
	case nil:
		return "", fmt.Errorf("%w: nil expression", ErrBadQuery)
	default:
		return "", fmt.Errorf("%w: unsupported expression %T", ErrBadQuery, e)
	}
}

func compileWindow(w Window, d Dialect) (string, error) {
	var fn string
	switch w.Func {
	case RunningSum:
		fn = "SUM"
	case FirstValue:
		fn = "FIRST_VALUE"
	case LastValue:
		fn = "LAST_VALUE"
	default:
		return "", fmt.Errorf("%w: unknown window function %d", ErrBadQuery, w.Func)
	}
	if len(w.OrderBy) == 0 {
		return "", fmt.Errorf("%w: window requires an ordering", ErrBadQuery)
	}
	arg, err := compileExpr(w.Arg, d)
	if err != nil {
		return "", err
	}

	var over []string
	if len(w.PartitionBy) > 0 {
		parts := make([]string, len(w.PartitionBy))
		for i, e := range w.PartitionBy {
			s, err := compileExpr(e, d)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		over = append(over, "PARTITION BY "+strings.Join(parts, ", "))
	}
	ord, err := compileOrderings(w.OrderBy, d)
	if err != nil {
		return "", err
	}
	over = append(over, "ORDER BY "+ord)

	// FIRST_VALUE/LAST_VALUE must see the whole partition; the default frame
	// ends at the current row, which would make LAST_VALUE the row itself.
	if w.Func == FirstValue || w.Func == LastValue {
		over = append(over, "ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING")
	}

	return fmt.Sprintf("%s(%s) OVER (%s)", fn, arg, strings.Join(over, " ")), nil
}

func compileOrderings(ords []Ordering, d Dialect) (string, error) {
	parts := make([]string, len(ords))
	for i, o := range ords {
		s, err := compileExpr(o.Expr, d)
		if err != nil {
			return "", err
		}
		if o.Desc {
			s += " DESC"
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func compilePred(p Pred, d Dialect, args *[]any) (string, error) {
	switch v := p.(type) {
	case Equals:
		s, err := compileExpr(v.Expr, d)
		if err != nil {
			return "", err
		}
		*args = append(*args, v.Value)
		return fmt.Sprintf("%s = %s", s, d.Placeholder(len(*args))), nil
	case Between:
		s, err := compileExpr(v.Expr, d)
		if err != nil {
			return "", err
		}
		*args = append(*args, v.Lo)
		lo := d.Placeholder(len(*args))
		*args = append(*args, v.Hi)
		hi := d.Placeholder(len(*args))
		return fmt.Sprintf("%s BETWEEN %s AND %s", s, lo, hi), nil
	case nil:
		return "", fmt.Errorf("%w: nil predicate", ErrBadQuery)
	default:
		return "", fmt.Errorf("%w: unsupported predicate %T", ErrBadQuery, p)
	}
}
