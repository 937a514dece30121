package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cyclehire/internal/source"
)

// NewTestDB creates a new in-memory SQLite database for testing.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.CreateSchema()
	require.NoError(t, err, "failed to create schema")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// InsertTrip inserts one trip row. Timestamps are "YYYY-MM-DD HH:MM:SS".
func InsertTrip(t *testing.T, db *DB, bikeID int, startedAt, endedAt string, startID int, startName string, endID int, endName string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO trips (bike_id, started_at, ended_at, start_station_id, start_station_name, end_station_id, end_station_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bikeID, startedAt, endedAt, startID, startName, endID, endName)
	require.NoError(t, err)
}

// InsertStation inserts one station row.
func InsertStation(t *testing.T, db *DB, id int, name string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO stations (station_id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
}

func TestCreateSchema(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"trips", "stations"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestFetch_SelectAndFilter(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	InsertTrip(t, db, 1, "2015-06-21 08:00:00", "2015-06-21 08:20:59", 10, "A", 20, "B")
	InsertTrip(t, db, 2, "2016-03-01 09:00:00", "2016-03-01 09:05:00", 20, "B", 30, "C")

	tbl, err := db.Fetch(ctx, source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: source.Col{Name: "bike_id"}, As: "bike_id"},
			{Expr: source.DurationMinutes{Start: "started_at", End: "ended_at"}, As: "duration_minutes"},
			{Expr: source.Year{Of: "started_at"}, As: "trip_year"},
			{Expr: source.TimeOf{Of: "started_at"}, As: "start_time"},
		},
		Where: []source.Pred{source.Equals{Expr: source.Year{Of: "started_at"}, Value: 2015}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	bike, err := tbl.Int(0, "bike_id")
	require.NoError(t, err)
	require.Equal(t, int64(1), bike)

	// 20m59s truncates to 20, never rounds up.
	minutes, err := tbl.Int(0, "duration_minutes")
	require.NoError(t, err)
	require.Equal(t, int64(20), minutes)

	year, err := tbl.Int(0, "trip_year")
	require.NoError(t, err)
	require.Equal(t, int64(2015), year)

	startTime, err := tbl.String(0, "start_time")
	require.NoError(t, err)
	require.Equal(t, "08:00:00", startTime)
}

func TestFetch_RunningSumWindow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		InsertTrip(t, db, i, "2015-01-01 10:00:00", "2015-01-01 10:10:00", 1, "A", 2, "B")
	}
	for i := 0; i < 3; i++ {
		InsertTrip(t, db, i, "2015-01-02 10:00:00", "2015-01-02 10:10:00", 1, "A", 2, "B")
	}

	date := source.DateOf{Of: "started_at"}
	tbl, err := db.Fetch(ctx, source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: date, As: "ride_date"},
			{Expr: source.Count{}, As: "trip_count"},
			{Expr: source.Window{
				Func:    source.RunningSum,
				Arg:     source.Count{},
				OrderBy: []source.Ordering{{Expr: date}},
			}, As: "cumulative_trips"},
		},
		GroupBy: []source.Expr{date},
		OrderBy: []source.Ordering{{Expr: date}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	count, err := tbl.Int(0, "trip_count")
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
	cumulative, err := tbl.Int(0, "cumulative_trips")
	require.NoError(t, err)
	require.Equal(t, int64(5), cumulative)

	count, err = tbl.Int(1, "trip_count")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	cumulative, err = tbl.Int(1, "cumulative_trips")
	require.NoError(t, err)
	require.Equal(t, int64(8), cumulative)
}

func TestFetch_FirstLastValueWindow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	// Inserted out of chronological order on purpose.
	InsertTrip(t, db, 1, "2015-06-21 17:00:00", "2015-06-21 17:10:00", 2, "B", 3, "C")
	InsertTrip(t, db, 1, "2015-06-21 08:00:00", "2015-06-21 08:20:00", 1, "A", 2, "B")

	byStart := []source.Ordering{{Expr: source.Col{Name: "started_at"}}}
	tbl, err := db.Fetch(ctx, source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: source.Window{
				Func:        source.FirstValue,
				Arg:         source.Col{Name: "start_station_id"},
				PartitionBy: []source.Expr{source.Col{Name: "bike_id"}},
				OrderBy:     byStart,
			}, As: "first_station"},
			{Expr: source.Window{
				Func:        source.LastValue,
				Arg:         source.Col{Name: "end_station_id"},
				PartitionBy: []source.Expr{source.Col{Name: "bike_id"}},
				OrderBy:     byStart,
			}, As: "last_station"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	for i := 0; i < tbl.Len(); i++ {
		first, err := tbl.Int(i, "first_station")
		require.NoError(t, err)
		require.Equal(t, int64(1), first, "row %d", i)
		last, err := tbl.Int(i, "last_station")
		require.NoError(t, err)
		require.Equal(t, int64(3), last, "row %d", i)
	}
}

func TestFetch_UnknownTableIsBadQuery(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Fetch(context.Background(), source.Query{
		From:   "rides",
		Select: []source.Selection{{Expr: source.Col{Name: "bike_id"}, As: "bike_id"}},
	})
	require.ErrorIs(t, err, source.ErrBadQuery)
}

func TestFetch_UnknownColumnIsBadQuery(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Fetch(context.Background(), source.Query{
		From:   "trips",
		Select: []source.Selection{{Expr: source.Col{Name: "wheel_size"}, As: "wheel_size"}},
	})
	require.ErrorIs(t, err, source.ErrBadQuery)
}

func TestNew_MissingDirectoryIsUnavailable(t *testing.T) {
	_, err := New("/nonexistent-dir/cyclehire.db")
	require.ErrorIs(t, err, source.ErrUnavailable)
}
