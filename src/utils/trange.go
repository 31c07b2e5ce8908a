package utils

import (
	"fmt"
	"strings"
	"time"
)

var trangeLayouts = []string{
	"2006-01-02/15:04:05",
	"2006-01-02/15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// -----------------------------------------------------------------------------

// ParseTime converts one trange endpoint to Unix seconds (UTC).
func ParseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range trangeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
		}
	}
	return 0, fmt.Errorf("malformed time %q (want YYYY-MM-DD[/hh:mm[:ss]])", s)
}

// -----------------------------------------------------------------------------

// ParseTimeRange converts both endpoints and checks their order.
func ParseTimeRange(trange [2]string) (float64, float64, error) {
	start, err := ParseTime(trange[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTime(trange[1])
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time range end %q is not after start %q", trange[1], trange[0])
	}
	return start, end, nil
}

// -----------------------------------------------------------------------------

// FormatTime renders Unix seconds as an ISO timestamp for log lines.
func FormatTime(sec float64) string {
	whole := int64(sec)
	nanos := int64((sec - float64(whole)) * 1e9)
	return time.Unix(whole, nanos).UTC().Format("2006-01-02T15:04:05.000Z")
}

// -----------------------------------------------------------------------------

// GenerateFilename encodes the time range into the output CSV name. When either
// endpoint carries a time of day the hhmm of both endpoints is appended.
func GenerateFilename(trange [2]string, prefix, suffix string) string {
	t0, t1 := trange[0], trange[1]
	if len(t0) > 10 || len(t1) > 10 {
		return prefix + substr(t0, 0, 10) + "_" + substr(t0, 11, 13) + substr(t0, 14, 16) +
			"--" + substr(t1, 0, 10) + "_" + substr(t1, 11, 13) + substr(t1, 14, 16) + suffix + ".csv"
	}
	return prefix + substr(t0, 0, 10) + "--" + substr(t1, 0, 10) + suffix + ".csv"
}

// substr slices s[lo:hi], clamping both bounds to the string length.
func substr(s string, lo, hi int) string {
	if lo > len(s) {
		lo = len(s)
	}
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}

// -----------------------------------------------------------------------------

// ReplaceExt swaps the extension of a generated name, e.g. ".csv" -> ".db".
func ReplaceExt(name, ext string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i] + ext
	}
	return name + ext
}
