package models

import "fmt"

// Column names of the exported table.
const (
	ColTime           = "Time"
	ColRc             = "Rc(km)"
	ColCurveNorm      = "|curve|"
	ColCurveX         = "Curvature_X(GSM)"
	ColCurveY         = "Curvature_Y(GSM)"
	ColCurveZ         = "Curvature_Z(GSM)"
	ColBMag           = "|B|"
	ColGyroIon        = "R_gi(km)"
	ColGyroElectron   = "R_ge(km)"
	ColPositionMLT    = "Position(MLT)"
	ColPositionRadius = "Position_radius(km)"
	ColPositionX      = "Position_Xgsm(km)"
	ColPositionY      = "Position_Ygsm(km)"
	ColPositionZ      = "Position_Zgsm(km)"
	ColTQF            = "TQF"
)

// MColumn is one named column of the result table.
type MColumn struct {
	Name   string
	Values []float64
}

// MResultTable is the time-indexed output of a run.
type MResultTable struct {
	IndexName string
	Index     []float64
	Columns   []MColumn
}

// -----------------------------------------------------------------------------

// Column looks up a column by name.
func (t *MResultTable) Column(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// -----------------------------------------------------------------------------

// Validate checks that every column matches the index length and that the
// index is strictly increasing.
func (t *MResultTable) Validate() error {
	n := len(t.Index)
	for _, c := range t.Columns {
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d rows, index has %d", c.Name, len(c.Values), n)
		}
	}
	for i := 1; i < n; i++ {
		if !(t.Index[i] > t.Index[i-1]) {
			return fmt.Errorf("index not strictly increasing at row %d", i)
		}
	}
	return nil
}
