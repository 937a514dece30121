package sqlite

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSV loaders for seeding a local database from dataset exports. Headers are
// matched by name (case-insensitive, spaces/dashes to underscores), so column
// order in the export does not matter.

var tripColumns = []string{
	"bike_id", "started_at", "ended_at",
	"start_station_id", "start_station_name",
	"end_station_id", "end_station_name",
}

var stationColumns = []string{"station_id", "name", "latitude", "longitude"}

// LoadTripsCSV inserts trip rows from a CSV file. Returns the number of rows
// inserted.
func (db *DB) LoadTripsCSV(ctx context.Context, path string) (int, error) {
	return db.loadCSV(ctx, path, tripColumns, func(tx *sql.Tx, rec map[string]string) error {
		bikeID, err := strconv.Atoi(rec["bike_id"])
		if err != nil {
			return fmt.Errorf("bike_id %q: %w", rec["bike_id"], err)
		}
		startedAt, err := parseTimestamp(rec["started_at"])
		if err != nil {
			return fmt.Errorf("started_at: %w", err)
		}
		endedAt, err := parseTimestamp(rec["ended_at"])
		if err != nil {
			return fmt.Errorf("ended_at: %w", err)
		}
		startID, err := strconv.Atoi(rec["start_station_id"])
		if err != nil {
			return fmt.Errorf("start_station_id %q: %w", rec["start_station_id"], err)
		}
		endID, err := strconv.Atoi(rec["end_station_id"])
		if err != nil {
			return fmt.Errorf("end_station_id %q: %w", rec["end_station_id"], err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO trips (bike_id, started_at, ended_at, start_station_id, start_station_name, end_station_id, end_station_name)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			bikeID, startedAt, endedAt, startID, rec["start_station_name"], endID, rec["end_station_name"],
		)
		return err
	})
}

// LoadStationsCSV inserts station rows from a CSV file. Returns the number of
// rows inserted.
func (db *DB) LoadStationsCSV(ctx context.Context, path string) (int, error) {
	return db.loadCSV(ctx, path, stationColumns, func(tx *sql.Tx, rec map[string]string) error {
		id, err := strconv.Atoi(rec["station_id"])
		if err != nil {
			return fmt.Errorf("station_id %q: %w", rec["station_id"], err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stations (station_id, name, latitude, longitude) VALUES (?, ?, ?, ?)`,
			id, rec["name"], nullFloat(rec["latitude"]), nullFloat(rec["longitude"]),
		)
		return err
	})
}

func (db *DB) loadCSV(ctx context.Context, path string, required []string, insert func(*sql.Tx, map[string]string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("%s: header missing column %q", path, col)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rec := make(map[string]string, len(required))
		for _, col := range required {
			i := index[col]
			if i >= len(row) {
				return 0, fmt.Errorf("%s line %d: short row", path, line)
			}
			rec[col] = strings.TrimSpace(row[i])
		}
		if err := insert(tx, rec); err != nil {
			return 0, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// parseTimestamp accepts the dataset's timestamp shapes and normalizes to the
// stored "YYYY-MM-DD HH:MM:SS" form.
func parseTimestamp(s string) (string, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05"), nil
		}
	}
	return "", fmt.Errorf("unrecognized timestamp %q", s)
}

func nullFloat(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return nil
}
