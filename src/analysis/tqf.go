package analysis

import (
	"fmt"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/helpers"
	"mms-curvature/src/models"
)

// TQFSeriesName labels the quality factor in errors and the series store.
const TQFSeriesName = "mms_tqf"

// -----------------------------------------------------------------------------

// TQFBounds finds the first sample at or after tMaster[0] and the last sample
// at or before tMaster[len-1]. Both indices are inclusive.
func TQFBounds(times, tMaster []float64) (int, int, error) {
	if len(tMaster) == 0 {
		return 0, 0, fmt.Errorf("empty master time base")
	}
	first, last := tMaster[0], tMaster[len(tMaster)-1]

	begin := core.SearchSorted(times, first, "left")
	end := core.SearchSorted(times, last, "right") - 1
	if begin >= len(times) || end < 0 || begin > end {
		notCovered := &helpers.RangeNotCoveredError{
			Series:    TQFSeriesName,
			WantStart: first,
			WantEnd:   last,
		}
		if len(times) > 0 {
			notCovered.AvailableStart = times[0]
			notCovered.AvailableEnd = times[len(times)-1]
		}
		return 0, 0, notCovered
	}
	return begin, end, nil
}

// -----------------------------------------------------------------------------

// AlignTQF interpolates the quality factor samples inside the master window
// onto tMaster. It returns the bounds it used for diagnostics.
func AlignTQF(tqf models.MTimeSeries, tMaster []float64) ([]float64, int, int, error) {
	begin, end, err := TQFBounds(tqf.Times, tMaster)
	if err != nil {
		return nil, 0, 0, err
	}

	values := tqf.Channel(0)
	out, err := core.Interp(tMaster, tqf.Times[begin:end+1], values[begin:end+1])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("interpolate TQF: %w", err)
	}
	return out, begin, end, nil
}
