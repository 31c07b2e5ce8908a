package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"mms-curvature/src/models"
)

// productTimeLayouts are the timestamp forms accepted in the time column.
// Fractional seconds are optional in every layout.
var productTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02/15:04:05.999999999",
}

// ParseProduct reads one archived product. The first row is a header, the
// first column is the sample time (Unix seconds or a UTC timestamp) and the
// remaining columns are channels. Lines starting with '#' are ignored and
// empty cells are missing values. Rows come back sorted by time with
// duplicate timestamps dropped.
func ParseProduct(r io.Reader) (models.MTimeSeries, []string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.MTimeSeries{}, nil, fmt.Errorf("empty product")
	}
	if err != nil {
		return models.MTimeSeries{}, nil, err
	}
	if len(header) < 2 {
		return models.MTimeSeries{}, nil, fmt.Errorf("header needs a time column and at least one channel, got %d columns", len(header))
	}
	channels := header[1:]
	reader.FieldsPerRecord = len(header)

	var series models.MTimeSeries
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.MTimeSeries{}, nil, err
		}

		t, err := parseTime(record[0])
		if err != nil {
			return models.MTimeSeries{}, nil, fmt.Errorf("row %d: %w", line, err)
		}
		row := make([]float64, len(channels))
		for j, cell := range record[1:] {
			if row[j], err = parseValue(cell); err != nil {
				return models.MTimeSeries{}, nil, fmt.Errorf("row %d, column %s: %w", line, channels[j], err)
			}
		}
		series.Times = append(series.Times, t)
		series.Values = append(series.Values, row)
	}

	return sortUnique(series), channels, nil
}

// -----------------------------------------------------------------------------

func parseTime(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid time %q", cell)
		}
		return v, nil
	}
	for _, layout := range productTimeLayouts {
		if t, err := time.ParseInLocation(layout, cell, time.UTC); err == nil {
			return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
		}
	}
	return 0, fmt.Errorf("malformed time %q", cell)
}

// -----------------------------------------------------------------------------

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// -----------------------------------------------------------------------------

func sortUnique(series models.MTimeSeries) models.MTimeSeries {
	sorted := sort.SliceIsSorted(series.Times, func(i, j int) bool {
		return series.Times[i] < series.Times[j]
	})
	if !sorted {
		idx := make([]int, len(series.Times))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return series.Times[idx[a]] < series.Times[idx[b]]
		})
		out := models.MTimeSeries{
			Times:  make([]float64, len(idx)),
			Values: make([][]float64, len(idx)),
		}
		for k, i := range idx {
			out.Times[k] = series.Times[i]
			out.Values[k] = series.Values[i]
		}
		series = out
	}

	n := 0
	for i := range series.Times {
		if n > 0 && series.Times[i] == series.Times[n-1] {
			continue
		}
		series.Times[n] = series.Times[i]
		series.Values[n] = series.Values[i]
		n++
	}
	series.Times = series.Times[:n]
	series.Values = series.Values[:n]
	return series
}
