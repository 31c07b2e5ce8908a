package core

import (
	"fmt"
	"math"
	"sort"
)

// -----------------------------------------------------------------------------

// SearchSorted mirrors numpy's searchsorted: "left" gives the first index with
// arr[i] >= value, "right" the first index with arr[i] > value.
func SearchSorted(arr []float64, value float64, side string) int {
	if side == "left" {
		return sort.Search(len(arr), func(i int) bool {
			return arr[i] >= value
		})
	}
	return sort.Search(len(arr), func(i int) bool {
		return arr[i] > value
	})
}

// -----------------------------------------------------------------------------

// Interp is one-dimensional piecewise-linear interpolation of (xp, fp) at x.
// xp must be increasing. Points left of xp[0] take fp[0] and points right of
// xp[len-1] take fp[len-1], as numpy.interp does.
func Interp(x, xp, fp []float64) ([]float64, error) {
	if len(xp) == 0 {
		return nil, fmt.Errorf("interp: empty sample grid")
	}
	if len(xp) != len(fp) {
		return nil, fmt.Errorf("interp: xp has %d points but fp has %d", len(xp), len(fp))
	}

	last := len(xp) - 1
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case v <= xp[0]:
			out[i] = fp[0]
		case v >= xp[last]:
			out[i] = fp[last]
		default:
			// xp[j-1] < v <= xp[j]
			j := SearchSorted(xp, v, "left")
			if xp[j] == v {
				out[i] = fp[j]
				continue
			}
			x0, x1 := xp[j-1], xp[j]
			w := (v - x0) / (x1 - x0)
			out[i] = fp[j-1] + w*(fp[j]-fp[j-1])
		}
	}
	return out, nil
}
