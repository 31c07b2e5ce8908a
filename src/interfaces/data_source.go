package interfaces

import (
	"context"

	"mms-curvature/src/models"
)

// -----------------------------------------------------------------------------
// IFieldLoader loads ephemeris and magnetometer data for the four spacecraft.
// -----------------------------------------------------------------------------

type IFieldLoader interface {

	// LoadFields returns (pos time, pos, mag time, mag) for spacecraft 1..4, in
	// spacecraft order. Implementations also register each spacecraft's MLT series in
	// the series store.
	LoadFields(ctx context.Context, trange [2]string, dataRate string) ([4]models.MSpacecraftFields, error)
}

// -----------------------------------------------------------------------------
// IMomentsLoader loads perpendicular temperature moments for one spacecraft.
// -----------------------------------------------------------------------------

type IMomentsLoader interface {
	LoadMoments(ctx context.Context, trange [2]string, dataRate, level, craft string) (models.MPlasmaMoments, error)
}

// -----------------------------------------------------------------------------
// ITQFLoader loads the tetrahedron quality factor as (time, tqf) samples.
// -----------------------------------------------------------------------------

type ITQFLoader interface {
	LoadTQF(ctx context.Context, trange [2]string) (models.MTimeSeries, error)
}
