// Package analysis implements the aggregation stage: four independent,
// stateless transforms that turn the raw trip and station tables into the
// derived tables the report stage reads. Each transform issues one
// declarative query, decodes the result into typed rows, and never mutates
// its output afterwards.
package analysis

// RankedTrip is one row of the trip-duration ranking.
type RankedTrip struct {
	BikeID           int    `dataframe:"bike_id,int"`
	DurationMinutes  int    `dataframe:"duration_minutes,int"`
	StartStationName string `dataframe:"start_station_name,string"`
	EndStationName   string `dataframe:"end_station_name,string"`
	TripYear         int    `dataframe:"trip_year,int"`
}

// DailyCount is one calendar date's trip count with the running total up to
// and including that date.
type DailyCount struct {
	RideDate        string `dataframe:"ride_date,string"`
	TripCount       int    `dataframe:"trip_count,int"`
	CumulativeTrips int    `dataframe:"cumulative_trips,int"`
}

// BikeTraceRow is one trip of a bike on the traced date. FirstStation and
// LastStation are constant across all rows of the same bike: the start
// station of its chronologically first trip and the end station of its last.
type BikeTraceRow struct {
	BikeID         int    `dataframe:"bike_id,int"`
	StartTime      string `dataframe:"start_time,string"` // HH:MM:SS
	StartStationID int    `dataframe:"start_station_id,int"`
	EndStationID   int    `dataframe:"end_station_id,int"`
	FirstStation   int    `dataframe:"first_station,int"`
	LastStation    int    `dataframe:"last_station,int"`
}

// StationStat is one station's departure count and mean trip duration.
// Every station appears exactly once, whether or not any trip started there.
type StationStat struct {
	StationID       int
	Name            string
	NumberOfTrips   int
	AverageDuration *int // whole minutes, rounded; nil when no trips started here
}
