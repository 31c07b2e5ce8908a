package utils

import "fmt"

// Physical constants used by the gyroradius calculation.
const (
	ElectronMass     = 9.1094e-31  // kg
	ProtonMass       = 1.6726e-27  // kg, proxy for all ions
	ElementaryCharge = 1.602177e-19 // C
)

// SpacecraftIDs is the fixed MMS fleet, in the order every four-element result uses.
var SpacecraftIDs = [4]string{"1", "2", "3", "4"}

// Data rates accepted on the command line / config.
const (
	DataRateSurvey = "srvy"
	DataRateBurst  = "brst"
)

// -----------------------------------------------------------------------------

// SeriesName builds the tplot-style key for a per-spacecraft product,
// e.g. SeriesName("1", "mec_mlt") == "mms1_mec_mlt".
func SeriesName(craft, product string) string {
	return fmt.Sprintf("mms%s_%s", craft, product)
}

// -----------------------------------------------------------------------------

// FPIDataRate maps the run data rate onto the FPI product rate: survey moments
// are published as "fast".
func FPIDataRate(dataRate string) string {
	if dataRate == DataRateSurvey {
		return "fast"
	}
	return dataRate
}
