package analysis

import (
	"context"
	"fmt"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// DailyTripCounts returns one row per calendar date of the given year on
// which at least one trip started, date ascending, with the per-date count
// and the running total over all preceding dates.
func DailyTripCounts(ctx context.Context, src source.Source, year int) ([]DailyCount, error) {
	date := source.DateOf{Of: "started_at"}
	q := source.Query{
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
		Where:   []source.Pred{source.Equals{Expr: source.Year{Of: "started_at"}, Value: year}},
		GroupBy: []source.Expr{date},
		OrderBy: []source.Ordering{{Expr: date}},
	}

	tbl, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("daily trip counts: %w", err)
	}
	rows, err := decodeDailyCounts(tbl)
	if err != nil {
		return nil, fmt.Errorf("daily trip counts: %w", err)
	}
	return rows, nil
}

func decodeDailyCounts(tbl *table.Table) ([]DailyCount, error) {
	if err := tbl.Require("ride_date", "trip_count", "cumulative_trips"); err != nil {
		return nil, err
	}
	rows := make([]DailyCount, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		rideDate, err := tbl.String(i, "ride_date")
		if err != nil {
			return nil, err
		}
		count, err := tbl.Int(i, "trip_count")
		if err != nil {
			return nil, err
		}
		cumulative, err := tbl.Int(i, "cumulative_trips")
		if err != nil {
			return nil, err
		}
		rows = append(rows, DailyCount{
			RideDate:        rideDate,
			TripCount:       int(count),
			CumulativeTrips: int(cumulative),
		})
	}
	return rows, nil
}
