package analysis

import (
	"fmt"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/models"
)

// TimeSeriesResampler handles clipping and re-gridding of time series.
type TimeSeriesResampler struct{}

// -----------------------------------------------------------------------------

// ClipIndices returns [lo, hi) covering start <= t <= end.
func (r *TimeSeriesResampler) ClipIndices(times []float64, start, end float64) (int, int) {
	lo := core.SearchSorted(times, start, "left")
	hi := core.SearchSorted(times, end, "right")
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// -----------------------------------------------------------------------------

// Clip keeps the samples inside [start, end].
func (r *TimeSeriesResampler) Clip(series models.MTimeSeries, start, end float64) models.MTimeSeries {
	lo, hi := r.ClipIndices(series.Times, start, end)
	return models.MTimeSeries{
		Times:  series.Times[lo:hi],
		Values: series.Values[lo:hi],
	}
}

// -----------------------------------------------------------------------------

// AlignScalar interpolates (times, values) onto target.
func (r *TimeSeriesResampler) AlignScalar(target, times, values []float64) ([]float64, error) {
	return core.Interp(target, times, values)
}

// -----------------------------------------------------------------------------

// AlignVectors interpolates each component of rows onto target.
func (r *TimeSeriesResampler) AlignVectors(target, times []float64, rows [][3]float64) ([][3]float64, error) {
	if len(times) != len(rows) {
		return nil, fmt.Errorf("align: %d times but %d vectors", len(times), len(rows))
	}

	out := make([][3]float64, len(target))
	for k := 0; k < 3; k++ {
		comp, err := core.Interp(target, times, core.Component(rows, k))
		if err != nil {
			return nil, err
		}
		for i, v := range comp {
			out[i][k] = v
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// TimesEqual reports whether two time axes match element by element within
// tol seconds. tol == 0 demands exact equality.
func TimesEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if tol == 0 {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		d := a[i] - b[i]
		if d > tol || d < -tol || d != d {
			return false
		}
	}
	return true
}
