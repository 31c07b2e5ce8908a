package analysis

import (
	"fmt"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/logger"
	"mms-curvature/src/utils"
)

// FleetLocator reduces the four spacecraft ephemerides to a single fleet
// position (mean MLT and mesocenter radius).
type FleetLocator struct {
	Store  interfaces.ISeriesStore
	Logger *logger.Logger

	// MLTSeries maps each spacecraft, in fleet order, to its MLT series name.
	MLTSeries [4]string

	// Tolerance in seconds for the ephemeris time check; 0 means identical.
	Tolerance float64

	resampler TimeSeriesResampler
}

// -----------------------------------------------------------------------------

func NewFleetLocator(store interfaces.ISeriesStore, log *logger.Logger, tolerance float64) *FleetLocator {
	f := &FleetLocator{
		Store:     store,
		Logger:    log,
		Tolerance: tolerance,
	}
	for i, craft := range utils.SpacecraftIDs {
		f.MLTSeries[i] = utils.SeriesName(craft, "mec_mlt")
	}
	return f
}

// -----------------------------------------------------------------------------

// FleetPos checks that all four ephemeris clocks agree, then returns the mean
// MLT interpolated onto tMaster and |rm| row by row. Misaligned clocks are not
// an error: the problem is logged and both results are nil.
func (f *FleetLocator) FleetPos(posTimes [4][]float64, rm [][3]float64, tMaster []float64) ([]float64, []float64, error) {
	for i := 1; i < 4; i++ {
		if !TimesEqual(posTimes[i-1], posTimes[i], f.Tolerance) {
			f.Logger.Warning("MEC times not aligned!")
			return nil, nil, nil
		}
	}

	var mlt [4][]float64
	for i, name := range f.MLTSeries {
		_, series, err := f.Store.Get(name)
		if err != nil {
			return nil, nil, fmt.Errorf("fleet position: %w", err)
		}
		if series.Len() != len(posTimes[0]) {
			return nil, nil, fmt.Errorf("fleet position: %s has %d samples, ephemeris has %d", name, series.Len(), len(posTimes[0]))
		}
		mlt[i] = series.Channel(0)
	}

	meanMLT, err := core.ElementwiseMean(mlt[0], mlt[1], mlt[2], mlt[3])
	if err != nil {
		return nil, nil, fmt.Errorf("fleet position: %w", err)
	}

	mltOnMaster, err := f.resampler.AlignScalar(tMaster, posTimes[0], meanMLT)
	if err != nil {
		return nil, nil, fmt.Errorf("fleet position: %w", err)
	}

	return mltOnMaster, core.RowNorms(rm), nil
}
