package core

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestInterpMatchesNumpy(t *testing.T) {
	xp := []float64{1, 2, 3}
	fp := []float64{3, 2, 0}
	x := []float64{0, 1, 1.5, 2.5, 3, 3.14}
	want := []float64{3, 3, 2.5, 1, 0, 0}

	got, err := Interp(x, xp, fp)
	if err != nil {
		t.Fatalf("Interp: %v", err)
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-12) {
			t.Errorf("x=%v: got %v, want %v", x[i], got[i], want[i])
		}
	}
}

func TestInterpSinglePointAndNaN(t *testing.T) {
	got, err := Interp([]float64{-5, 0, math.NaN()}, []float64{1}, []float64{7})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 7 || got[1] != 7 || !math.IsNaN(got[2]) {
		t.Fatalf("got %v", got)
	}
}

func TestInterpErrors(t *testing.T) {
	if _, err := Interp([]float64{1}, nil, nil); err == nil {
		t.Error("expected error for empty grid")
	}
	if _, err := Interp([]float64{1}, []float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected error for mismatched grid")
	}
}

func TestSearchSorted(t *testing.T) {
	arr := []float64{1, 2, 2, 3}
	if got := SearchSorted(arr, 2, "left"); got != 1 {
		t.Errorf("left = %d", got)
	}
	if got := SearchSorted(arr, 2, "right"); got != 3 {
		t.Errorf("right = %d", got)
	}
	if got := SearchSorted(arr, 9, "left"); got != 4 {
		t.Errorf("past end = %d", got)
	}
}
