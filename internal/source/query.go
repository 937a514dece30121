package source

// Query is a declarative request against one named source table. It covers
// exactly the shapes the analysis transforms need: projected expressions,
// filter predicates, grouping, ordering, a row cap, and window functions
// (running sum, first/last value in a partition).
type Query struct {
	From    string
	Select  []Selection
	Where   []Pred
	GroupBy []Expr
	OrderBy []Ordering
	Limit   int // 0 means no cap
}

// Selection is a projected expression with its output column name.
type Selection struct {
	Expr Expr
	As   string
}

// Ordering sorts by an expression, ascending unless Desc is set.
type Ordering struct {
	Expr Expr
	Desc bool
}

// Expr is a projectable expression. The closed set of variants below is the
// whole expression language; dialects compile each one to engine SQL.
type Expr interface {
	expr()
}

// Col references a raw column of the source table.
type Col struct{ Name string }

// Year extracts the calendar year of a timestamp column as an integer.
type Year struct{ Of string }

// DateOf extracts the calendar date of a timestamp column as YYYY-MM-DD text.
type DateOf struct{ Of string }

// TimeOf extracts the time of day of a timestamp column as HH:MM:SS text.
type TimeOf struct{ Of string }

// DurationMinutes is the whole-minute duration between two timestamp
// columns, truncated (never rounded).
type DurationMinutes struct{ Start, End string }

// Count is COUNT(*).
type Count struct{}

// AvgRounded is the arithmetic mean of Arg rounded to the nearest integer,
// half away from zero.
type AvgRounded struct{ Arg Expr }

// WindowFunc names a supported window function.
type WindowFunc int

const (
	// RunningSum accumulates Arg from the first ordered row through the
	// current one.
	RunningSum WindowFunc = iota
	// FirstValue is Arg taken from the first row of the ordered partition.
	FirstValue
	// LastValue is Arg taken from the last row of the ordered partition.
	LastValue
)

// Window applies Func to Arg over an ordered, optionally partitioned frame.
type Window struct {
	Func        WindowFunc
	Arg         Expr
	PartitionBy []Expr
	OrderBy     []Ordering
}

func (Col) expr()             {}
func (Year) expr()            {}
func (DateOf) expr()          {}
func (TimeOf) expr()          {}
func (DurationMinutes) expr() {}
func (Count) expr()           {}
func (AvgRounded) expr()      {}
func (Window) expr()          {}

// Pred is a filter predicate. All predicates on a query are combined with
// AND.
type Pred interface {
	pred()
}

// Equals matches rows where Expr equals Value.
type Equals struct {
	Expr  Expr
	Value any
}

// Between matches rows where Lo <= Expr <= Hi (inclusive on both ends).
type Between struct {
	Expr   Expr
	Lo, Hi any
}

func (Equals) pred()  {}
func (Between) pred() {}
