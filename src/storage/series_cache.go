package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"mms-curvature/src/logger"
	"mms-curvature/src/models"

	"github.com/dgraph-io/badger/v4"
)

const seriesKeyPrefix = "series/"

// BadgerSeriesCache keeps parsed archive products between runs so repeated
// runs over the same interval skip CSV parsing and downloads.
type BadgerSeriesCache struct {
	DB         *badger.DB
	Logger     *logger.Logger
	compressor *Compressor
}

type seriesPayload struct {
	Rows     int    `json:"rows"`
	Channels int    `json:"channels"`
	Times    []byte `json:"times"`
	Values   []byte `json:"values"`
}

// -----------------------------------------------------------------------------

func NewBadgerSeriesCache(path string, compressionLevel int, log *logger.Logger) (*BadgerSeriesCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open series cache at %s: %w", path, err)
	}

	compressor, err := NewCompressor(compressionLevel)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BadgerSeriesCache{DB: db, Logger: log, compressor: compressor}, nil
}

// -----------------------------------------------------------------------------

func (c *BadgerSeriesCache) Store(key string, series models.MTimeSeries) error {
	channels := 0
	if series.Len() > 0 {
		channels = len(series.Values[0])
	}

	flat := make([]float64, 0, series.Len()*channels)
	for i, row := range series.Values {
		if len(row) != channels {
			return fmt.Errorf("row %d of %s has %d channels, expected %d", i, key, len(row), channels)
		}
		flat = append(flat, row...)
	}

	times, err := c.compressor.CompressFloats(series.Times)
	if err != nil {
		return fmt.Errorf("failed to compress times: %w", err)
	}
	values, err := c.compressor.CompressFloats(flat)
	if err != nil {
		return fmt.Errorf("failed to compress values: %w", err)
	}

	payload, err := json.Marshal(seriesPayload{
		Rows:     series.Len(),
		Channels: channels,
		Times:    times,
		Values:   values,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return c.DB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(seriesKeyPrefix+key), payload)
	})
}

// -----------------------------------------------------------------------------

func (c *BadgerSeriesCache) Load(key string) (models.MTimeSeries, bool, error) {
	var raw []byte
	err := c.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(seriesKeyPrefix + key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.MTimeSeries{}, false, nil
	}
	if err != nil {
		return models.MTimeSeries{}, false, err
	}

	var payload seriesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.MTimeSeries{}, false, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	times, err := c.compressor.DecompressFloats(payload.Times, payload.Rows)
	if err != nil {
		return models.MTimeSeries{}, false, err
	}
	flat, err := c.compressor.DecompressFloats(payload.Values, payload.Rows*payload.Channels)
	if err != nil {
		return models.MTimeSeries{}, false, err
	}

	values := make([][]float64, payload.Rows)
	for i := range values {
		values[i] = flat[i*payload.Channels : (i+1)*payload.Channels]
	}

	return models.MTimeSeries{Times: times, Values: values}, true, nil
}

// -----------------------------------------------------------------------------

func (c *BadgerSeriesCache) Close() error {
	c.compressor.Close()
	return c.DB.Close()
}
