package models

// MSeriesMeta describes a named series held in the series store.
type MSeriesMeta struct {
	Name   string `json:"name"`
	Units  string `json:"units"`
	Source string `json:"source"`
}

// -----------------------------------------------------------------------------

// MTimeSeries is an ordered set of timestamps (Unix seconds) with one row of
// channel values per timestamp.
type MTimeSeries struct {
	Times  []float64   `json:"times"`
	Values [][]float64 `json:"values"`
}

// Len returns the number of samples.
func (s MTimeSeries) Len() int { return len(s.Times) }

// -----------------------------------------------------------------------------

// Channel extracts column idx as a flat slice.
func (s MTimeSeries) Channel(idx int) []float64 {
	out := make([]float64, len(s.Values))
	for i, row := range s.Values {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// Vectors returns the first three channels of every row.
func (s MTimeSeries) Vectors() [][3]float64 {
	out := make([][3]float64, len(s.Values))
	for i, row := range s.Values {
		for k := 0; k < 3 && k < len(row); k++ {
			out[i][k] = row[k]
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// MSpacecraftFields is the ephemeris and magnetometer data for one spacecraft.
type MSpacecraftFields struct {
	Spacecraft string
	PosTime    []float64
	Pos        [][3]float64 // GSM, km
	MagTime    []float64
	Mag        [][3]float64 // GSM, nT
}

// MPlasmaMoments holds the perpendicular temperatures for one spacecraft.
type MPlasmaMoments struct {
	Spacecraft       string
	IonTime          []float64
	IonTempPerp      []float64 // eV
	ElectronTime     []float64
	ElectronTempPerp []float64 // eV
}
