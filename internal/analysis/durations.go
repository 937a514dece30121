package analysis

import (
	"context"
	"fmt"
	"sort"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// RankTripDurations returns up to limit trips whose start year falls in
// [yearFrom, yearTo] inclusive, ordered by truncated whole-minute duration
// descending. With WithCapBeforeSort the cap is applied first and only the
// capped subset is sorted (see Option for why that exists).
func RankTripDurations(ctx context.Context, src source.Source, yearFrom, yearTo, limit int, opts ...Option) ([]RankedTrip, error) {
	if yearFrom > yearTo {
		return nil, fmt.Errorf("rank trip durations: year range %d..%d is inverted", yearFrom, yearTo)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("rank trip durations: limit must be positive, got %d", limit)
	}
	o := applyOptions(opts)

	q := source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: source.Col{Name: "bike_id"}, As: "bike_id"},
			{Expr: source.DurationMinutes{Start: "started_at", End: "ended_at"}, As: "duration_minutes"},
			{Expr: source.Col{Name: "start_station_name"}, As: "start_station_name"},
			{Expr: source.Col{Name: "end_station_name"}, As: "end_station_name"},
			{Expr: source.Year{Of: "started_at"}, As: "trip_year"},
		},
		Where: []source.Pred{
			source.Between{Expr: source.Year{Of: "started_at"}, Lo: yearFrom, Hi: yearTo},
		},
		Limit: limit,
	}
	if !o.capBeforeSort {
		q.OrderBy = []source.Ordering{{Expr: source.Col{Name: "duration_minutes"}, Desc: true}}
	}

	tbl, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("rank trip durations: %w", err)
	}
	rows, err := decodeRankedTrips(tbl)
	if err != nil {
		return nil, fmt.Errorf("rank trip durations: %w", err)
	}

	if o.capBeforeSort {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].DurationMinutes > rows[j].DurationMinutes
		})
	}
	return rows, nil
}

func decodeRankedTrips(tbl *table.Table) ([]RankedTrip, error) {
	if err := tbl.Require("bike_id", "duration_minutes", "start_station_name", "end_station_name", "trip_year"); err != nil {
		return nil, err
	}
	rows := make([]RankedTrip, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		bikeID, err := tbl.Int(i, "bike_id")
		if err != nil {
			return nil, err
		}
		minutes, err := tbl.Int(i, "duration_minutes")
		if err != nil {
			return nil, err
		}
		startName, err := tbl.String(i, "start_station_name")
		if err != nil {
			return nil, err
		}
		endName, err := tbl.String(i, "end_station_name")
		if err != nil {
			return nil, err
		}
		year, err := tbl.Int(i, "trip_year")
		if err != nil {
			return nil, err
		}
		rows = append(rows, RankedTrip{
			BikeID:           int(bikeID),
			DurationMinutes:  int(minutes),
			StartStationName: startName,
			EndStationName:   endName,
			TripYear:         int(year),
		})
	}
	return rows, nil
}
