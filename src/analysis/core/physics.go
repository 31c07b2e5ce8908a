package core

import (
	"fmt"
	"math"
)

// nanoTesla converts nT to T.
const nanoTesla = 1e-9

// GyroradiusCalculator is the default gyroradius formula: the perpendicular
// thermal speed sqrt(2T/m) (T in eV) gyrating in |B| (nT).
type GyroradiusCalculator struct{}

// -----------------------------------------------------------------------------

// CalcRadius interpolates partTempPerp onto bTime and returns the gyroradius
// in meters on bTime.
func (GyroradiusCalculator) CalcRadius(partTime, partTempPerp, bTime, bMag []float64, partMass, partCharge float64) ([]float64, error) {
	if len(bTime) != len(bMag) {
		return nil, fmt.Errorf("b_time has %d samples but b_mag has %d", len(bTime), len(bMag))
	}
	if partMass <= 0 || partCharge == 0 {
		return nil, fmt.Errorf("invalid particle mass %g or charge %g", partMass, partCharge)
	}

	temp, err := Interp(bTime, partTime, partTempPerp)
	if err != nil {
		return nil, fmt.Errorf("align temperature to field: %w", err)
	}

	q := math.Abs(partCharge)
	out := make([]float64, len(bTime))
	for i := range bTime {
		out[i] = Gyroradius(temp[i], bMag[i], partMass, q)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// Gyroradius for a single sample: tempEV in eV, bNT in nT, mass in kg,
// charge in C. Returns meters.
func Gyroradius(tempEV, bNT, mass, charge float64) float64 {
	vPerp := math.Sqrt(2 * tempEV * ElementaryChargeJPerEV / mass)
	return mass * vPerp / (math.Abs(charge) * math.Abs(bNT) * nanoTesla)
}

// ElementaryChargeJPerEV converts eV to J.
const ElementaryChargeJPerEV = 1.602177e-19
