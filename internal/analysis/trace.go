package analysis

import (
	"context"
	"fmt"
	"time"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// TraceBikeDay returns every trip started on the given date (YYYY-MM-DD),
// one row per trip, annotated with the bike's first start station and last
// end station of that day. Rows are ordered by bike id, then start time.
func TraceBikeDay(ctx context.Context, src source.Source, date string) ([]BikeTraceRow, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("trace bike day: invalid date %q: %w", date, err)
	}

	partition := []source.Expr{source.Col{Name: "bike_id"}}
	byStart := []source.Ordering{{Expr: source.Col{Name: "started_at"}}}
	q := source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: source.Col{Name: "bike_id"}, As: "bike_id"},
			{Expr: source.TimeOf{Of: "started_at"}, As: "start_time"},
			{Expr: source.Col{Name: "start_station_id"}, As: "start_station_id"},
			{Expr: source.Col{Name: "end_station_id"}, As: "end_station_id"},
			{Expr: source.Window{
				Func:        source.FirstValue,
				Arg:         source.Col{Name: "start_station_id"},
				PartitionBy: partition,
				OrderBy:     byStart,
			}, As: "first_station"},
			{Expr: source.Window{
				Func:        source.LastValue,
				Arg:         source.Col{Name: "end_station_id"},
				PartitionBy: partition,
				OrderBy:     byStart,
			}, As: "last_station"},
		},
		Where: []source.Pred{
			source.Equals{Expr: source.DateOf{Of: "started_at"}, Value: date},
		},
		OrderBy: []source.Ordering{
			{Expr: source.Col{Name: "bike_id"}},
			{Expr: source.Col{Name: "started_at"}},
		},
	}

	tbl, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("trace bike day: %w", err)
	}
	rows, err := decodeTraceRows(tbl)
	if err != nil {
		return nil, fmt.Errorf("trace bike day: %w", err)
	}
	return rows, nil
}

func decodeTraceRows(tbl *table.Table) ([]BikeTraceRow, error) {
	if err := tbl.Require("bike_id", "start_time", "start_station_id", "end_station_id", "first_station", "last_station"); err != nil {
		return nil, err
	}
	rows := make([]BikeTraceRow, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		bikeID, err := tbl.Int(i, "bike_id")
		if err != nil {
			return nil, err
		}
		startTime, err := tbl.String(i, "start_time")
		if err != nil {
			return nil, err
		}
		startStation, err := tbl.Int(i, "start_station_id")
		if err != nil {
			return nil, err
		}
		endStation, err := tbl.Int(i, "end_station_id")
		if err != nil {
			return nil, err
		}
		first, err := tbl.Int(i, "first_station")
		if err != nil {
			return nil, err
		}
		last, err := tbl.Int(i, "last_station")
		if err != nil {
			return nil, err
		}
		rows = append(rows, BikeTraceRow{
			BikeID:         int(bikeID),
			StartTime:      startTime,
			StartStationID: int(startStation),
			EndStationID:   int(endStation),
			FirstStation:   int(first),
			LastStation:    int(last),
		})
	}
	return rows, nil
}
