package analysis

import (
	"math"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/models"
)

// TableInputs gathers every derived quantity that goes into the export.
// MLT and Radius may be nil when the fleet position could not be computed.
type TableInputs struct {
	TMaster []float64
	Curve   [][3]float64
	BMag    []float64
	RGiKm   []float64
	RGeKm   []float64
	MLT     []float64
	Radius  []float64
	RM      [][3]float64
	TQF     []float64
}

// -----------------------------------------------------------------------------

// BuildResultTable lays the inputs out as the exported table, indexed by
// TMaster. Missing optional columns are filled with NaN.
func BuildResultTable(in TableInputs) (*models.MResultTable, error) {
	n := len(in.TMaster)
	curveNorm := core.RowNorms(in.Curve)

	table := &models.MResultTable{
		IndexName: models.ColTime,
		Index:     in.TMaster,
		Columns: []models.MColumn{
			{Name: models.ColRc, Values: core.Reciprocal(curveNorm)},
			{Name: models.ColCurveNorm, Values: curveNorm},
			{Name: models.ColCurveX, Values: core.Component(in.Curve, 0)},
			{Name: models.ColCurveY, Values: core.Component(in.Curve, 1)},
			{Name: models.ColCurveZ, Values: core.Component(in.Curve, 2)},
			{Name: models.ColBMag, Values: in.BMag},
			{Name: models.ColGyroIon, Values: in.RGiKm},
			{Name: models.ColGyroElectron, Values: in.RGeKm},
			{Name: models.ColPositionMLT, Values: orMissing(in.MLT, n)},
			{Name: models.ColPositionRadius, Values: orMissing(in.Radius, n)},
			{Name: models.ColPositionX, Values: core.Component(in.RM, 0)},
			{Name: models.ColPositionY, Values: core.Component(in.RM, 1)},
			{Name: models.ColPositionZ, Values: core.Component(in.RM, 2)},
			{Name: models.ColTQF, Values: in.TQF},
		},
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func orMissing(values []float64, n int) []float64 {
	if values != nil {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
