package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"cyclehire/internal/source"
	"cyclehire/internal/table"
)

// StationStats groups all trips by start station (no date filter), computing
// the departure count and the mean truncated-minute duration rounded to the
// nearest integer, then left-joins the result onto the full station list:
// every station appears exactly once, zero-trip stations with count 0 and a
// nil average. Rows are ordered by trip count descending, station id
// ascending on ties.
func StationStats(ctx context.Context, src source.Source) ([]StationStat, error) {
	grouped, err := src.Fetch(ctx, source.Query{
		From: "trips",
		Select: []source.Selection{
			{Expr: source.Col{Name: "start_station_id"}, As: "station_id"},
			{Expr: source.Count{}, As: "number_of_trips"},
			{Expr: source.AvgRounded{
				Arg: source.DurationMinutes{Start: "started_at", End: "ended_at"},
			}, As: "average_duration"},
		},
		GroupBy: []source.Expr{source.Col{Name: "start_station_id"}},
	})
	if err != nil {
		return nil, fmt.Errorf("station stats: %w", err)
	}

	stations, err := src.Fetch(ctx, source.Query{
		From: "stations",
		Select: []source.Selection{
			{Expr: source.Col{Name: "station_id"}, As: "station_id"},
			{Expr: source.Col{Name: "name"}, As: "name"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("station stats: %w", err)
	}

	stats, err := joinStationStats(stations, grouped)
	if err != nil {
		return nil, fmt.Errorf("station stats: %w", err)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].NumberOfTrips != stats[j].NumberOfTrips {
			return stats[i].NumberOfTrips > stats[j].NumberOfTrips
		}
		return stats[i].StationID < stats[j].StationID
	})
	return stats, nil
}

func joinStationStats(stations, grouped *table.Table) ([]StationStat, error) {
	if err := stations.Require("station_id", "name"); err != nil {
		return nil, err
	}
	if err := grouped.Require("station_id", "number_of_trips", "average_duration"); err != nil {
		return nil, err
	}
	if stations.Len() == 0 {
		return []StationStat{}, nil
	}

	stationIDs := make([]int, stations.Len())
	names := make([]string, stations.Len())
	for i := 0; i < stations.Len(); i++ {
		id, err := stations.Int(i, "station_id")
		if err != nil {
			return nil, err
		}
		name, err := stations.String(i, "name")
		if err != nil {
			return nil, err
		}
		stationIDs[i] = int(id)
		names[i] = name
	}

	// No departures at all: the join degenerates to the station list.
	if grouped.Len() == 0 {
		stats := make([]StationStat, stations.Len())
		for i := range stationIDs {
			stats[i] = StationStat{StationID: stationIDs[i], Name: names[i]}
		}
		return stats, nil
	}

	groupedIDs := make([]int, grouped.Len())
	counts := make([]int, grouped.Len())
	averages := make([]int, grouped.Len())
	for i := 0; i < grouped.Len(); i++ {
		id, err := grouped.Int(i, "station_id")
		if err != nil {
			return nil, err
		}
		count, err := grouped.Int(i, "number_of_trips")
		if err != nil {
			return nil, err
		}
		avg, err := grouped.Int(i, "average_duration")
		if err != nil {
			return nil, err
		}
		groupedIDs[i] = int(id)
		counts[i] = int(count)
		averages[i] = int(avg)
	}

	left := dataframe.New(
		series.New(stationIDs, series.Int, "station_id"),
		series.New(names, series.String, "name"),
	)
	right := dataframe.New(
		series.New(groupedIDs, series.Int, "station_id"),
		series.New(counts, series.Int, "number_of_trips"),
		series.New(averages, series.Int, "average_duration"),
	)
	joined := left.LeftJoin(right, "station_id")
	if joined.Err != nil {
		return nil, fmt.Errorf("joining: %w", joined.Err)
	}

	idCol := joined.Col("station_id")
	nameCol := joined.Col("name")
	countCol := joined.Col("number_of_trips")
	avgCol := joined.Col("average_duration")

	stats := make([]StationStat, 0, joined.Nrow())
	for i := 0; i < joined.Nrow(); i++ {
		id, err := idCol.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("station_id row %d: %w", i, err)
		}
		stat := StationStat{StationID: id, Name: nameCol.Elem(i).String()}
		if cnt := countCol.Elem(i); !cnt.IsNA() {
			n, err := cnt.Int()
			if err != nil {
				return nil, fmt.Errorf("number_of_trips row %d: %w", i, err)
			}
			stat.NumberOfTrips = n
		}
		if avg := avgCol.Elem(i); !avg.IsNA() {
			n, err := avg.Int()
			if err != nil {
				return nil, fmt.Errorf("average_duration row %d: %w", i, err)
			}
			stat.AverageDuration = &n
		}
		stats = append(stats, stat)
	}
	return stats, nil
}
