package analysis

import (
	"errors"
	"testing"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/helpers"
	"mms-curvature/src/models"
)

func tqfSeries(times, values []float64) models.MTimeSeries {
	s := models.MTimeSeries{Times: times}
	for _, v := range values {
		s.Values = append(s.Values, []float64{v})
	}
	return s
}

// -----------------------------------------------------------------------------

func TestTQFBounds(t *testing.T) {
	tMaster := []float64{10, 20, 30}
	cases := []struct {
		name       string
		times      []float64
		begin, end int
	}{
		{"exact edges", []float64{0, 5, 10, 15, 25, 30, 40}, 2, 5},
		{"inside edges", []float64{0, 12, 28, 40}, 1, 2},
		{"starts at master", []float64{10, 40}, 0, 0},
		{"ends at master", []float64{0, 30}, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, e, err := TQFBounds(tc.times, tMaster)
			if err != nil {
				t.Fatalf("TQFBounds: %v", err)
			}
			if b != tc.begin || e != tc.end {
				t.Errorf("bounds = (%d, %d), want (%d, %d)", b, e, tc.begin, tc.end)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestTQFBoundsNotCovered(t *testing.T) {
	tMaster := []float64{10, 20, 30}
	cases := map[string][]float64{
		"all before": {0, 5},
		"all after":  {31, 40},
		"gap":        {0, 40},
		"empty":      nil,
	}
	for name, times := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := TQFBounds(times, tMaster)
			var notCovered *helpers.RangeNotCoveredError
			if !errors.As(err, &notCovered) {
				t.Fatalf("expected RangeNotCoveredError, got %v", err)
			}
			if notCovered.WantStart != 10 || notCovered.WantEnd != 30 {
				t.Errorf("requested range = [%v, %v]", notCovered.WantStart, notCovered.WantEnd)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestAlignTQF(t *testing.T) {
	series := tqfSeries([]float64{-10, 0.5, 1.5, 10}, []float64{0.1, 0.6, 0.7, 0.99})
	tMaster := []float64{0, 1, 2}

	values, b, e, err := AlignTQF(series, tMaster)
	if err != nil {
		t.Fatalf("AlignTQF: %v", err)
	}
	if b != 1 || e != 2 {
		t.Errorf("bounds = (%d, %d)", b, e)
	}
	want := []float64{0.6, 0.65, 0.7}
	if len(values) != len(tMaster) {
		t.Fatalf("len = %d", len(values))
	}
	lo, hi := core.MinMax(values)
	if lo < 0.6 || hi > 0.7 {
		t.Errorf("values outside bounded sub-array range: [%v, %v]", lo, hi)
	}
	for i, w := range want {
		if !almostEqual(values[i], w, 1e-12) {
			t.Errorf("tqf[%d] = %v, want %v", i, values[i], w)
		}
	}
}
