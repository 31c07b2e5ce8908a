package interfaces

import "mms-curvature/src/models"

// -----------------------------------------------------------------------------
// ICurvatureCalculator derives field-line curvature from four spacecraft.
// -----------------------------------------------------------------------------

type ICurvatureCalculator interface {
	Calculate(fleet [4]models.MSpacecraftFields) (*models.MCurvatureResult, error)
}

// -----------------------------------------------------------------------------
// IGyroradiusCalculator computes a gyroradius series (meters) on bTime.
// -----------------------------------------------------------------------------

type IGyroradiusCalculator interface {
	CalcRadius(partTime, partTempPerp, bTime, bMag []float64, partMass, partCharge float64) ([]float64, error)
}
