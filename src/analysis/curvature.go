package analysis

import (
	"fmt"
	"math"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/models"
)

// HarveyCurvature estimates field-line curvature from four spacecraft with
// the volumetric-tensor (least squares) gradient.
//
// Spacecraft 1's magnetometer clock is the master time base; every position
// and field series is linearly interpolated onto it. Rows where the
// tetrahedron is degenerate come back as NaN.
type HarveyCurvature struct {
	resampler TimeSeriesResampler
}

func NewHarveyCurvature() *HarveyCurvature {
	return &HarveyCurvature{}
}

// -----------------------------------------------------------------------------

func (h *HarveyCurvature) Calculate(fleet [4]models.MSpacecraftFields) (*models.MCurvatureResult, error) {
	if len(fleet[0].MagTime) == 0 {
		return nil, fmt.Errorf("curvature: spacecraft %s has no magnetometer samples", fleet[0].Spacecraft)
	}

	tMaster := append([]float64(nil), fleet[0].MagTime...)
	n := len(tMaster)

	var pos, mag [4][][3]float64
	for a, sc := range fleet {
		var err error
		if pos[a], err = h.resampler.AlignVectors(tMaster, sc.PosTime, sc.Pos); err != nil {
			return nil, fmt.Errorf("curvature: align position of mms%s: %w", sc.Spacecraft, err)
		}
		if mag[a], err = h.resampler.AlignVectors(tMaster, sc.MagTime, sc.Mag); err != nil {
			return nil, fmt.Errorf("curvature: align field of mms%s: %w", sc.Spacecraft, err)
		}
	}

	res := &models.MCurvatureResult{
		TMaster: tMaster,
		Grad:    make([][3][3]float64, n),
		Curve:   make([][3]float64, n),
		RArr:    make([][4][3]float64, n),
		BArr:    make([][4][3]float64, n),
		RM:      make([][3]float64, n),
		BM:      make([][3]float64, n),
		BMag:    make([]float64, n),
	}

	for i := 0; i < n; i++ {
		var r, b [4][3]float64
		for a := 0; a < 4; a++ {
			r[a] = pos[a][i]
			b[a] = mag[a][i]
		}
		res.RArr[i] = r
		res.BArr[i] = b
		res.RM[i] = core.Mean4(r)
		res.BM[i] = core.Mean4(b)
		res.BMag[i] = core.Norm(res.BM[i])

		grad, curve, ok := curvatureAt(r, b, res.RM[i], res.BM[i])
		if !ok {
			nan := math.NaN()
			grad = [3][3]float64{{nan, nan, nan}, {nan, nan, nan}, {nan, nan, nan}}
			curve = [3]float64{nan, nan, nan}
		}
		res.Grad[i] = grad
		res.Curve[i] = curve
	}

	return res, nil
}

// -----------------------------------------------------------------------------

// curvatureAt returns grad(b_hat) (row i = d/dx_i) and (b_hat . grad) b_hat
// for one instant.
func curvatureAt(r, b [4][3]float64, rm, bm [3]float64) ([3][3]float64, [3]float64, bool) {
	var grad [3][3]float64
	var curve [3]float64

	var dr [4][3]float64
	var vol [3][3]float64
	for a := 0; a < 4; a++ {
		dr[a] = core.Sub(r[a], rm)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				vol[i][j] += 0.25 * dr[a][i] * dr[a][j]
			}
		}
	}
	volInv, ok := core.Inverse3(vol)
	if !ok {
		return grad, curve, false
	}

	var bhat [4][3]float64
	for a := 0; a < 4; a++ {
		mag := core.Norm(b[a])
		if mag == 0 {
			return grad, curve, false
		}
		bhat[a] = core.ScaleVec(b[a], 1/mag)
	}
	bhatMean := core.Mean4(bhat)

	for a := 0; a < 4; a++ {
		k := core.MatVec(volInv, dr[a])
		db := core.Sub(bhat[a], bhatMean)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				grad[i][j] += 0.25 * k[i] * db[j]
			}
		}
	}

	bmNorm := core.Norm(bm)
	if bmNorm == 0 {
		return grad, curve, false
	}
	bc := core.ScaleVec(bm, 1/bmNorm)
	for j := 0; j < 3; j++ {
		curve[j] = bc[0]*grad[0][j] + bc[1]*grad[1][j] + bc[2]*grad[2][j]
	}
	return grad, curve, true
}
