package interfaces

import "mms-curvature/src/models"

// -----------------------------------------------------------------------------
// ISeriesStore is a named-series store: loaders put, analysis code gets.
// -----------------------------------------------------------------------------

type ISeriesStore interface {

	// Put stores (or replaces) a series under meta.Name.
	Put(meta models.MSeriesMeta, series models.MTimeSeries) error

	// -----------------------------------------------------------------------------

	// Get returns the metadata and data stored under name.
	Get(name string) (models.MSeriesMeta, models.MTimeSeries, error)
}

// -----------------------------------------------------------------------------
// ISeriesCache persists loaded series between runs, keyed by an opaque key.
// -----------------------------------------------------------------------------

type ISeriesCache interface {

	// Load returns ok=false on a miss.
	Load(key string) (series models.MTimeSeries, ok bool, err error)

	Store(key string, series models.MTimeSeries) error

	Close() error
}
