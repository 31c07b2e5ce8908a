package utils

import (
	"fmt"
	"sort"
	"sync"

	"mms-curvature/src/models"
)

// -----------------------------------------------------------------------------
// MemoryManager is the in-process named-series store. Loaders register every
// product they read; analysis code looks series up by name.
// -----------------------------------------------------------------------------

type MemoryManager struct {
	DataStreams map[string]storedSeries
	mu          sync.RWMutex
}

type storedSeries struct {
	meta   models.MSeriesMeta
	series models.MTimeSeries
}

// -----------------------------------------------------------------------------

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		DataStreams: make(map[string]storedSeries),
	}
}

// -----------------------------------------------------------------------------

// Put stores a series, replacing any previous one under the same name.
func (mm *MemoryManager) Put(meta models.MSeriesMeta, series models.MTimeSeries) error {
	if meta.Name == "" {
		return fmt.Errorf("series name cannot be empty")
	}
	if len(series.Times) != len(series.Values) {
		return fmt.Errorf("series %s: %d times but %d rows", meta.Name, len(series.Times), len(series.Values))
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.DataStreams[meta.Name] = storedSeries{meta: meta, series: series}
	return nil
}

// -----------------------------------------------------------------------------

// Get returns the series stored under name.
func (mm *MemoryManager) Get(name string) (models.MSeriesMeta, models.MTimeSeries, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	s, ok := mm.DataStreams[name]
	if !ok {
		return models.MSeriesMeta{}, models.MTimeSeries{}, fmt.Errorf("series %s not loaded", name)
	}
	return s.meta, s.series, nil
}

// -----------------------------------------------------------------------------

// Names lists stored series in sorted order.
func (mm *MemoryManager) Names() []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	names := make([]string, 0, len(mm.DataStreams))
	for name := range mm.DataStreams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// Cleanup clears all data
func (mm *MemoryManager) Cleanup() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	mm.DataStreams = make(map[string]storedSeries)
}
