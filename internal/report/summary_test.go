package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cyclehire/internal/analysis"
)

func TestDurationByYear(t *testing.T) {
	trips := []analysis.RankedTrip{
		{BikeID: 1, DurationMinutes: 30, TripYear: 2016},
		{BikeID: 2, DurationMinutes: 10, TripYear: 2015},
		{BikeID: 3, DurationMinutes: 20, TripYear: 2015},
	}

	byYear, err := DurationByYear(trips)
	require.NoError(t, err)
	require.Equal(t, []YearDuration{
		{TripYear: 2015, TotalMinutes: 30, MeanMinutes: 15},
		{TripYear: 2016, TotalMinutes: 30, MeanMinutes: 30},
	}, byYear)
}

func TestDurationByYear_Empty(t *testing.T) {
	byYear, err := DurationByYear(nil)
	require.NoError(t, err)
	require.Nil(t, byYear)
}

func traceFixture() []analysis.BikeTraceRow {
	return []analysis.BikeTraceRow{
		{BikeID: 1, StartTime: "06:00:00", StartStationID: 10, EndStationID: 20},
		{BikeID: 1, StartTime: "08:15:00", StartStationID: 20, EndStationID: 10},
		{BikeID: 2, StartTime: "08:45:00", StartStationID: 10, EndStationID: 30},
		{BikeID: 3, StartTime: "10:00:00", StartStationID: 30, EndStationID: 10},
		{BikeID: 3, StartTime: "17:30:00", StartStationID: 10, EndStationID: 30},
	}
}

func TestTopValues(t *testing.T) {
	top, err := TopValues(traceFixture(), ColStartStationID, 2)
	require.NoError(t, err)
	require.Equal(t, []ValueCount{
		{Value: "10", Count: 3},
		{Value: "20", Count: 1}, // ties with 30, lower value wins
	}, top)
}

func TestTopValues_TiesOrderNumerically(t *testing.T) {
	rows := []analysis.BikeTraceRow{
		{BikeID: 100, StartTime: "08:00:00"},
		{BikeID: 9, StartTime: "09:00:00"},
	}
	top, err := TopValues(rows, ColBikeID, 5)
	require.NoError(t, err)
	// Numeric ordering, not lexicographic ("100" < "9" as strings).
	require.Equal(t, []ValueCount{
		{Value: "9", Count: 1},
		{Value: "100", Count: 1},
	}, top)
}

func TestTopValues_Validation(t *testing.T) {
	_, err := TopValues(traceFixture(), "start_time", 3)
	require.Error(t, err)

	_, err = TopValues(traceFixture(), ColBikeID, 0)
	require.Error(t, err)

	top, err := TopValues(nil, ColBikeID, 3)
	require.NoError(t, err)
	require.Nil(t, top)
}

func TestCountBetween(t *testing.T) {
	n, err := CountBetween(traceFixture(), "06:00:00", "10:00:00")
	require.NoError(t, err)
	// Both boundaries are excluded: 06:00:00 and 10:00:00 do not count.
	require.Equal(t, 2, n)
}

func TestCountBetween_Validation(t *testing.T) {
	_, err := CountBetween(nil, "6am", "10:00:00")
	require.Error(t, err)

	_, err = CountBetween(nil, "10:00:00", "06:00:00")
	require.Error(t, err)

	_, err = CountBetween(nil, "10:00:00", "10:00:00")
	require.Error(t, err)
}

func stationFixture() []analysis.StationStat {
	avg := func(n int) *int { return &n }
	return []analysis.StationStat{
		{StationID: 1, Name: "Harbour", NumberOfTrips: 5, AverageDuration: avg(20)},
		{StationID: 2, Name: "Market", NumberOfTrips: 3, AverageDuration: avg(8)},
		{StationID: 3, Name: "Docks", NumberOfTrips: 3, AverageDuration: avg(20)},
		{StationID: 4, Name: "Quay", NumberOfTrips: 0, AverageDuration: nil},
	}
}

func TestMaxAverageDuration_ReturnsAllTies(t *testing.T) {
	slowest := MaxAverageDuration(stationFixture())
	require.Len(t, slowest, 2)
	require.Equal(t, 1, slowest[0].StationID)
	require.Equal(t, 3, slowest[1].StationID)
}

func TestMinAverageDuration_SkipsNilAverages(t *testing.T) {
	fastest := MinAverageDuration(stationFixture())
	require.Len(t, fastest, 1)
	require.Equal(t, 2, fastest[0].StationID)

	require.Nil(t, MinAverageDuration([]analysis.StationStat{{StationID: 9}}))
}

func TestMinTripCount(t *testing.T) {
	quietest := MinTripCount(stationFixture())
	require.Len(t, quietest, 1)
	require.Equal(t, 4, quietest[0].StationID)

	require.Nil(t, MinTripCount(nil))
}

func TestMeanTripCount_RoundsHalfAwayFromZero(t *testing.T) {
	stats := []analysis.StationStat{
		{StationID: 1, NumberOfTrips: 1},
		{StationID: 2, NumberOfTrips: 2},
	}
	// Mean 1.5 rounds up to 2.
	require.Equal(t, 2, MeanTripCount(stats))
	require.Equal(t, 0, MeanTripCount(nil))
}
