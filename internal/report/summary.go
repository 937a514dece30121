// Package report computes the summary statistics read off the derived
// tables, and renders them. Everything here is a pure function of its
// inputs: no summary touches the data source.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"

	"cyclehire/internal/analysis"
)

// YearDuration is the per-year reduction of the ranked trips.
type YearDuration struct {
	TripYear     int
	TotalMinutes int
	MeanMinutes  float64
}

// DurationByYear groups the ranked trips by trip year and reduces duration
// minutes with sum and mean. Years are returned ascending.
func DurationByYear(trips []analysis.RankedTrip) ([]YearDuration, error) {
	if len(trips) == 0 {
		return nil, nil
	}

	df := dataframe.LoadStructs(trips)
	if df.Err != nil {
		return nil, fmt.Errorf("duration by year: %w", df.Err)
	}
	agg := df.GroupBy("trip_year").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_MEAN},
		[]string{"duration_minutes", "duration_minutes"},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("duration by year: %w", agg.Err)
	}

	yearCol := agg.Col("trip_year")
	sumCol := agg.Col("duration_minutes_SUM")
	meanCol := agg.Col("duration_minutes_MEAN")

	out := make([]YearDuration, 0, agg.Nrow())
	for i := 0; i < agg.Nrow(); i++ {
		year, err := yearCol.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("duration by year: trip_year row %d: %w", i, err)
		}
		out = append(out, YearDuration{
			TripYear:     year,
			TotalMinutes: int(sumCol.Elem(i).Float()),
			MeanMinutes:  meanCol.Elem(i).Float(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TripYear < out[j].TripYear })
	return out, nil
}

// ValueCount is one distinct value of a trace column and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// Columns of the bike trace that TopValues accepts.
const (
	ColBikeID         = "bike_id"
	ColStartStationID = "start_station_id"
	ColEndStationID   = "end_station_id"
)

// TopValues counts occurrences of each distinct value in the chosen trace
// column and returns the k largest. Equal counts are ordered by ascending
// value (numerically when both values are numeric), which keeps the output
// deterministic.
func TopValues(rows []analysis.BikeTraceRow, column string, k int) ([]ValueCount, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top values: k must be positive, got %d", k)
	}
	switch column {
	case ColBikeID, ColStartStationID, ColEndStationID:
	default:
		return nil, fmt.Errorf("top values: unsupported column %q", column)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return nil, fmt.Errorf("top values: %w", df.Err)
	}
	counts := make(map[string]int)
	for _, v := range df.Col(column).Records() {
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return valueLess(out[i].Value, out[j].Value)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func valueLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// CountBetween counts trace rows whose start time lies strictly inside the
// open interval (t0, t1). Times are HH:MM:SS, so lexicographic comparison is
// chronological.
func CountBetween(rows []analysis.BikeTraceRow, t0, t1 string) (int, error) {
	for _, t := range []string{t0, t1} {
		if _, err := time.Parse("15:04:05", t); err != nil {
			return 0, fmt.Errorf("count between: invalid time %q: %w", t, err)
		}
	}
	if t0 >= t1 {
		return 0, fmt.Errorf("count between: empty interval (%s, %s)", t0, t1)
	}
	n := 0
	for _, r := range rows {
		if r.StartTime > t0 && r.StartTime < t1 {
			n++
		}
	}
	return n, nil
}

// MaxAverageDuration returns every station whose average duration equals the
// table-wide maximum. Stations with no trips (nil average) are skipped.
func MaxAverageDuration(stats []analysis.StationStat) []analysis.StationStat {
	return extremalAverage(stats, func(v, best int) bool { return v > best })
}

// MinAverageDuration returns every station whose average duration equals the
// table-wide minimum, skipping stations with no trips.
func MinAverageDuration(stats []analysis.StationStat) []analysis.StationStat {
	return extremalAverage(stats, func(v, best int) bool { return v < best })
}

func extremalAverage(stats []analysis.StationStat, better func(v, best int) bool) []analysis.StationStat {
	best := 0
	found := false
	for _, s := range stats {
		if s.AverageDuration == nil {
			continue
		}
		if !found || better(*s.AverageDuration, best) {
			best = *s.AverageDuration
			found = true
		}
	}
	if !found {
		return nil
	}
	var out []analysis.StationStat
	for _, s := range stats {
		if s.AverageDuration != nil && *s.AverageDuration == best {
			out = append(out, s)
		}
	}
	return out
}

// MinTripCount returns every station whose trip count equals the table-wide
// minimum. Zero-trip stations count as zero, so they tie for the minimum
// whenever any exist.
func MinTripCount(stats []analysis.StationStat) []analysis.StationStat {
	if len(stats) == 0 {
		return nil
	}
	min := stats[0].NumberOfTrips
	for _, s := range stats[1:] {
		if s.NumberOfTrips < min {
			min = s.NumberOfTrips
		}
	}
	var out []analysis.StationStat
	for _, s := range stats {
		if s.NumberOfTrips == min {
			out = append(out, s)
		}
	}
	return out
}

// MeanTripCount is the table-wide mean of per-station trip counts, rounded
// half away from zero.
func MeanTripCount(stats []analysis.StationStat) int {
	if len(stats) == 0 {
		return 0
	}
	total := 0
	for _, s := range stats {
		total += s.NumberOfTrips
	}
	return int(math.Round(float64(total) / float64(len(stats))))
}
