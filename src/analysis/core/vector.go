package core

import "math"

// Vec3 helpers operate on [3]float64 so rows of GSM data can be used directly.

func Norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// RowNorms is the row-wise Euclidean norm.
func RowNorms(rows [][3]float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = Norm(r)
	}
	return out
}

// Component extracts axis k of every row.
func Component(rows [][3]float64, k int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[k]
	}
	return out
}

func Sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func ScaleVec(v [3]float64, k float64) [3]float64 {
	return [3]float64{v[0] * k, v[1] * k, v[2] * k}
}

// Mean4 averages four vectors.
func Mean4(v [4][3]float64) [3]float64 {
	var m [3]float64
	for _, x := range v {
		for k := 0; k < 3; k++ {
			m[k] += x[k]
		}
	}
	return ScaleVec(m, 0.25)
}

// -----------------------------------------------------------------------------

// MatVec computes m·v.
func MatVec(m [3][3]float64, v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Inverse3 inverts a 3x3 matrix by cofactors. ok is false when the matrix is
// singular relative to its scale.
func Inverse3(m [3][3]float64) (inv [3][3]float64, ok bool) {
	c00 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c01 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c02 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	det := m[0][0]*c00 + m[0][1]*c01 + m[0][2]*c02

	scale := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			scale = math.Max(scale, math.Abs(m[i][j]))
		}
	}
	if det == 0 || math.IsNaN(det) || math.Abs(det) <= 1e-12*scale*scale*scale {
		return inv, false
	}

	inv[0][0] = c00 / det
	inv[1][0] = c01 / det
	inv[2][0] = c02 / det
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / det
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / det
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / det
	return inv, true
}
