package analysis

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"mms-curvature/src/logger"
	"mms-curvature/src/models"
	"mms-curvature/src/utils"
)

func newTestLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewLoggerWithWriter(&buf, "debug", "test"), &buf
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// tetrahedronOffsets is a regular tetrahedron of edge 2*sqrt(2) km.
var tetrahedronOffsets = [4][3]float64{
	{1, 1, 1},
	{1, -1, -1},
	{-1, 1, -1},
	{-1, -1, 1},
}

// circularFleet places the tetrahedron at (radius, 0, 0) in the field
// B = (-y, x, 0), whose field lines are circles about the z axis.
func circularFleet(radius float64, times []float64) [4]models.MSpacecraftFields {
	var fleet [4]models.MSpacecraftFields
	for a, off := range tetrahedronOffsets {
		r := [3]float64{radius + off[0], off[1], off[2]}
		b := [3]float64{-r[1], r[0], 0}
		sc := models.MSpacecraftFields{
			Spacecraft: utils.SpacecraftIDs[a],
			PosTime:    append([]float64(nil), times...),
			MagTime:    append([]float64(nil), times...),
		}
		for range times {
			sc.Pos = append(sc.Pos, r)
			sc.Mag = append(sc.Mag, b)
		}
		fleet[a] = sc
	}
	return fleet
}

// -----------------------------------------------------------------------------

// fakeFieldLoader serves a fixed fleet and registers a constant MLT per spacecraft.
type fakeFieldLoader struct {
	fleet [4]models.MSpacecraftFields
	store *utils.MemoryManager
	mlt   float64
}

func (f *fakeFieldLoader) LoadFields(ctx context.Context, trange [2]string, dataRate string) ([4]models.MSpacecraftFields, error) {
	for _, sc := range f.fleet {
		series := models.MTimeSeries{Times: sc.PosTime}
		for range sc.PosTime {
			series.Values = append(series.Values, []float64{f.mlt})
		}
		if err := f.store.Put(models.MSeriesMeta{Name: utils.SeriesName(sc.Spacecraft, "mec_mlt")}, series); err != nil {
			return f.fleet, err
		}
	}
	return f.fleet, nil
}

// -----------------------------------------------------------------------------

// fakeMoments returns per-spacecraft moments from a map, or constant temperatures.
type fakeMoments struct {
	bySpacecraft map[string]models.MPlasmaMoments
	calls        []string
}

func (f *fakeMoments) LoadMoments(ctx context.Context, trange [2]string, dataRate, level, craft string) (models.MPlasmaMoments, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s/%s/%s", craft, dataRate, level))
	m, ok := f.bySpacecraft[craft]
	if !ok {
		return models.MPlasmaMoments{}, fmt.Errorf("no moments for mms%s", craft)
	}
	return m, nil
}

func constantMoments(times []float64, ionEV, elecEV float64) map[string]models.MPlasmaMoments {
	out := make(map[string]models.MPlasmaMoments)
	for _, p := range utils.SpacecraftIDs {
		m := models.MPlasmaMoments{Spacecraft: p, IonTime: times, ElectronTime: times}
		for range times {
			m.IonTempPerp = append(m.IonTempPerp, ionEV)
			m.ElectronTempPerp = append(m.ElectronTempPerp, elecEV)
		}
		out[p] = m
	}
	return out
}

// -----------------------------------------------------------------------------

type fakeTQF struct {
	series models.MTimeSeries
}

func (f *fakeTQF) LoadTQF(ctx context.Context, trange [2]string) (models.MTimeSeries, error) {
	return f.series, nil
}
