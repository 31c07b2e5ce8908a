package analysis

import (
	"context"
	"fmt"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/models"
	"mms-curvature/src/utils"
)

// GyroradiusEstimator averages FPI perpendicular temperatures over the
// tetrahedron and turns them into mesocenter gyroradii.
type GyroradiusEstimator struct {
	Moments    interfaces.IMomentsLoader
	Calculator interfaces.IGyroradiusCalculator

	resampler TimeSeriesResampler
}

func NewGyroradiusEstimator(moments interfaces.IMomentsLoader, calc interfaces.IGyroradiusCalculator) *GyroradiusEstimator {
	return &GyroradiusEstimator{Moments: moments, Calculator: calc}
}

// -----------------------------------------------------------------------------

// MesoGyroradius returns (ion, electron) gyroradii in meters on tMaster.
// Spacecraft 1's ion and electron clocks are the species master clocks.
func (g *GyroradiusEstimator) MesoGyroradius(
	ctx context.Context,
	trange [2]string,
	dataRate, level string,
	tMaster, bmag []float64,
) ([]float64, []float64, error) {
	var moments [4]models.MPlasmaMoments
	for i, craft := range utils.SpacecraftIDs {
		m, err := g.Moments.LoadMoments(ctx, trange, dataRate, level, craft)
		if err != nil {
			return nil, nil, fmt.Errorf("load moments for mms%s: %w", craft, err)
		}
		moments[i] = m
	}

	ionTime := moments[0].IonTime
	elecTime := moments[0].ElectronTime

	var ionTemps, elecTemps [4][]float64
	ionTemps[0] = moments[0].IonTempPerp
	elecTemps[0] = moments[0].ElectronTempPerp
	for i := 1; i < 4; i++ {
		var err error
		if ionTemps[i], err = g.resampler.AlignScalar(ionTime, moments[i].IonTime, moments[i].IonTempPerp); err != nil {
			return nil, nil, fmt.Errorf("align ion T_perp of mms%s: %w", moments[i].Spacecraft, err)
		}
		if elecTemps[i], err = g.resampler.AlignScalar(elecTime, moments[i].ElectronTime, moments[i].ElectronTempPerp); err != nil {
			return nil, nil, fmt.Errorf("align electron T_perp of mms%s: %w", moments[i].Spacecraft, err)
		}
	}

	tiPerp, err := core.ElementwiseMean(ionTemps[:]...)
	if err != nil {
		return nil, nil, fmt.Errorf("average ion T_perp: %w", err)
	}
	tePerp, err := core.ElementwiseMean(elecTemps[:]...)
	if err != nil {
		return nil, nil, fmt.Errorf("average electron T_perp: %w", err)
	}

	rI, err := g.Calculator.CalcRadius(ionTime, tiPerp, tMaster, bmag, utils.ProtonMass, utils.ElementaryCharge)
	if err != nil {
		return nil, nil, fmt.Errorf("ion gyroradius: %w", err)
	}
	rE, err := g.Calculator.CalcRadius(elecTime, tePerp, tMaster, bmag, utils.ElectronMass, utils.ElementaryCharge)
	if err != nil {
		return nil, nil, fmt.Errorf("electron gyroradius: %w", err)
	}

	return rI, rE, nil
}
