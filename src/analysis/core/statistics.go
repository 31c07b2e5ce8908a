package core

import (
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------

// ElementwiseMean averages equally long slices position by position.
func ElementwiseMean(series ...[]float64) ([]float64, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to average")
	}
	n := len(series[0])
	for i, s := range series {
		if len(s) != n {
			return nil, fmt.Errorf("series %d has length %d, expected %d", i, len(s), n)
		}
	}

	out := make([]float64, n)
	for _, s := range series {
		for i, v := range s {
			out[i] += v
		}
	}
	k := float64(len(series))
	for i := range out {
		out[i] /= k
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// MinMax returns the extrema of data, ignoring NaN.
func MinMax(data []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// -----------------------------------------------------------------------------

// Scale multiplies every element by k into a new slice.
func Scale(data []float64, k float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * k
	}
	return out
}

// Reciprocal returns 1/v for every element.
func Reciprocal(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = 1 / v
	}
	return out
}
