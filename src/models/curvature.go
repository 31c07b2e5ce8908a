package models

// MCurvatureResult is everything the curvature calculator reports, aligned to
// TMaster.
type MCurvatureResult struct {
	TMaster []float64
	Grad    [][3][3]float64 // d(b_hat)_j / dx_i, 1/km
	Curve   [][3]float64    // 1/km
	RArr    [][4][3]float64 // per-spacecraft positions on TMaster
	BArr    [][4][3]float64 // per-spacecraft fields on TMaster
	RM      [][3]float64    // mesocenter position, km
	BM      [][3]float64    // mesocenter field, nT
	BMag    []float64       // |BM|, nT
}
