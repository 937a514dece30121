package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cyclehire/internal/analysis"
)

const histogramWidth = 50

// HourlyTripCounts buckets trace rows by the hour of their start time.
func HourlyTripCounts(rows []analysis.BikeTraceRow) ([24]int, error) {
	var counts [24]int
	for _, r := range rows {
		h, err := hourOf(r.StartTime)
		if err != nil {
			return counts, err
		}
		counts[h]++
	}
	return counts, nil
}

func hourOf(startTime string) (int, error) {
	if len(startTime) < 2 {
		return 0, fmt.Errorf("malformed time %q", startTime)
	}
	h, err := strconv.Atoi(startTime[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed time %q", startTime)
	}
	return h, nil
}

// renderHistogram writes a horizontal bar chart of trips per hour.
func renderHistogram(w io.Writer, counts [24]int) {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	for hour, c := range counts {
		bar := 0
		if max > 0 {
			bar = c * histogramWidth / max
		}
		if c > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(w, "%02d:00 |%-*s %d\n", hour, histogramWidth, strings.Repeat("#", bar), c)
	}
}
