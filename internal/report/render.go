package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"cyclehire/internal/analysis"
)

// Params configures which summaries Build computes.
type Params struct {
	TopK        int
	WindowStart string // HH:MM:SS, exclusive
	WindowEnd   string // HH:MM:SS, exclusive
}

// Report is the full summary computed over the four derived tables.
type Report struct {
	RunID       string
	GeneratedAt time.Time

	Ranked   []analysis.RankedTrip
	ByYear   []YearDuration
	Daily    []analysis.DailyCount
	Stations []analysis.StationStat

	TopStartStations []ValueCount
	TopEndStations   []ValueCount
	TopBikes         []ValueCount
	WindowTrips      int

	SlowestStations []analysis.StationStat
	QuietestStations []analysis.StationStat
	MeanStationTrips int

	Hourly [24]int
}

// Build computes every summary over the derived tables. It reads the tables
// and nothing else; calling it twice with the same inputs yields the same
// report.
func Build(
	runID string,
	ranked []analysis.RankedTrip,
	daily []analysis.DailyCount,
	trace []analysis.BikeTraceRow,
	stations []analysis.StationStat,
	p Params,
) (*Report, error) {
	byYear, err := DurationByYear(ranked)
	if err != nil {
		return nil, err
	}

	topStart, err := TopValues(trace, ColStartStationID, p.TopK)
	if err != nil {
		return nil, err
	}
	topEnd, err := TopValues(trace, ColEndStationID, p.TopK)
	if err != nil {
		return nil, err
	}
	topBikes, err := TopValues(trace, ColBikeID, p.TopK)
	if err != nil {
		return nil, err
	}

	windowTrips, err := CountBetween(trace, p.WindowStart, p.WindowEnd)
	if err != nil {
		return nil, err
	}

	hourly, err := HourlyTripCounts(trace)
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:            runID,
		GeneratedAt:      time.Now().UTC(),
		Ranked:           ranked,
		ByYear:           byYear,
		Daily:            daily,
		Stations:         stations,
		TopStartStations: topStart,
		TopEndStations:   topEnd,
		TopBikes:         topBikes,
		WindowTrips:      windowTrips,
		SlowestStations:  MaxAverageDuration(stations),
		QuietestStations: MinTripCount(stations),
		MeanStationTrips: MeanTripCount(stations),
		Hourly:           hourly,
	}, nil
}

// Render writes the report as plain text.
func (r *Report) Render(w io.Writer, p Params) error {
	fmt.Fprintf(w, "cyclehire analysis %s (%s)\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(w, "Longest trips (%d rows)\n", len(r.Ranked))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "bike\tminutes\tfrom\tto\tyear")
	for _, t := range r.Ranked {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\n",
			t.BikeID, t.DurationMinutes, t.StartStationName, t.EndStationName, t.TripYear)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nDuration by year")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "year\ttotal min\tmean min")
	for _, y := range r.ByYear {
		fmt.Fprintf(tw, "%d\t%d\t%.1f\n", y.TripYear, y.TotalMinutes, y.MeanMinutes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n := len(r.Daily); n > 0 {
		fmt.Fprintf(w, "\nDaily counts: %d active days, %d trips total (last day %s)\n",
			n, r.Daily[n-1].CumulativeTrips, r.Daily[n-1].RideDate)
	} else {
		fmt.Fprintln(w, "\nDaily counts: no trips in the selected year")
	}

	fmt.Fprintf(w, "\nTrips started strictly between %s and %s: %d\n", p.WindowStart, p.WindowEnd, r.WindowTrips)

	writeValueCounts(w, "Top start stations", r.TopStartStations)
	writeValueCounts(w, "Top end stations", r.TopEndStations)
	writeValueCounts(w, "Busiest bikes", r.TopBikes)

	fmt.Fprintln(w, "\nStations with the longest average trip")
	for _, s := range r.SlowestStations {
		fmt.Fprintf(w, "  %d %s: %d min over %d trips\n", s.StationID, s.Name, *s.AverageDuration, s.NumberOfTrips)
	}
	fmt.Fprintln(w, "\nQuietest stations")
	for _, s := range r.QuietestStations {
		fmt.Fprintf(w, "  %d %s: %d trips\n", s.StationID, s.Name, s.NumberOfTrips)
	}
	fmt.Fprintf(w, "\nMean trips per station: %d\n", r.MeanStationTrips)

	fmt.Fprintln(w, "\nTrips by hour of day")
	renderHistogram(w, r.Hourly)
	return nil
}

func writeValueCounts(w io.Writer, title string, counts []ValueCount) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Value, c.Count)
	}
}
