package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cyclehire/internal/analysis"
)

func TestHourlyTripCounts(t *testing.T) {
	counts, err := HourlyTripCounts(traceFixture())
	require.NoError(t, err)

	require.Equal(t, 1, counts[6])
	require.Equal(t, 2, counts[8])
	require.Equal(t, 1, counts[10])
	require.Equal(t, 1, counts[17])
	require.Equal(t, 0, counts[0])
}

func TestHourlyTripCounts_MalformedTime(t *testing.T) {
	_, err := HourlyTripCounts([]analysis.BikeTraceRow{{StartTime: "x"}})
	require.Error(t, err)

	_, err = HourlyTripCounts([]analysis.BikeTraceRow{{StartTime: "25:00:00"}})
	require.Error(t, err)
}

func TestRenderHistogram(t *testing.T) {
	var counts [24]int
	counts[8] = 4
	counts[17] = 2
	counts[23] = 1

	var buf bytes.Buffer
	renderHistogram(&buf, counts)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 24)

	// The busiest hour fills the full width; others scale down but never
	// vanish while nonzero.
	require.Contains(t, lines[8], strings.Repeat("#", histogramWidth))
	require.Contains(t, lines[17], strings.Repeat("#", histogramWidth/2))
	require.Contains(t, lines[23], "#")
	require.NotContains(t, lines[0], "#")
	require.True(t, strings.HasPrefix(lines[8], "08:00 |"))
}

func TestReportRender(t *testing.T) {
	avg := 15
	rep, err := Build("run-1",
		[]analysis.RankedTrip{
			{BikeID: 1, DurationMinutes: 30, StartStationName: "Harbour", EndStationName: "Market", TripYear: 2015},
		},
		[]analysis.DailyCount{{RideDate: "2015-01-01", TripCount: 1, CumulativeTrips: 1}},
		traceFixture(),
		[]analysis.StationStat{
			{StationID: 1, Name: "Harbour", NumberOfTrips: 2, AverageDuration: &avg},
			{StationID: 2, Name: "Market", NumberOfTrips: 0},
		},
		Params{TopK: 3, WindowStart: "06:00:00", WindowEnd: "10:00:00"},
	)
	require.NoError(t, err)
	require.Equal(t, 2, rep.WindowTrips)
	require.Equal(t, 1, rep.MeanStationTrips)
	require.Len(t, rep.SlowestStations, 1)
	require.Len(t, rep.QuietestStations, 1)

	var buf bytes.Buffer
	err = rep.Render(&buf, Params{TopK: 3, WindowStart: "06:00:00", WindowEnd: "10:00:00"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "cyclehire analysis run-1")
	require.Contains(t, out, "Longest trips (1 rows)")
	require.Contains(t, out, "Harbour")
	require.Contains(t, out, "Duration by year")
	require.Contains(t, out, "strictly between 06:00:00 and 10:00:00: 2")
	require.Contains(t, out, "Top start stations")
	require.Contains(t, out, "Quietest stations")
	require.Contains(t, out, "Trips by hour of day")
}

func TestBuild_EmptyTables(t *testing.T) {
	rep, err := Build("run-2", nil, nil, nil, nil,
		Params{TopK: 3, WindowStart: "06:00:00", WindowEnd: "10:00:00"})
	require.NoError(t, err)
	require.Zero(t, rep.WindowTrips)
	require.Empty(t, rep.TopBikes)
	require.Zero(t, rep.MeanStationTrips)

	var buf bytes.Buffer
	require.NoError(t, rep.Render(&buf, Params{WindowStart: "06:00:00", WindowEnd: "10:00:00"}))
	require.Contains(t, buf.String(), "no trips in the selected year")
}
