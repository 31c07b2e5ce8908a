package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics bundles the Prometheus metrics of one runner invocation. The
// runner is a batch job, so the metrics are written once to a node-exporter
// textfile instead of being scraped.
type RunMetrics struct {
	registry *prometheus.Registry

	StageDuration  *prometheus.GaugeVec
	SeriesLoaded   *prometheus.CounterVec
	RowsExported   prometheus.Gauge
	FleetAligned   prometheus.Gauge
	LastSuccessUTC prometheus.Gauge
}

// -----------------------------------------------------------------------------

// NewRunMetrics registers the runner metrics on a private registry.
func NewRunMetrics() (*RunMetrics, error) {
	reg := prometheus.NewRegistry()
	m := &RunMetrics{
		registry: reg,
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "curvature_stage_duration_seconds",
			Help: "Wall time of each runner stage in seconds.",
		}, []string{"stage"}),
		SeriesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curvature_series_loaded_total",
			Help: "Series loaded from the archive, labeled by origin (local, remote, cache).",
		}, []string{"origin"}),
		RowsExported: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curvature_rows_exported",
			Help: "Rows in the exported result table.",
		}),
		FleetAligned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curvature_fleet_ephemeris_aligned",
			Help: "1 when the four ephemeris clocks matched, 0 otherwise.",
		}),
		LastSuccessUTC: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "curvature_last_success_timestamp_seconds",
			Help: "Unix time of the last successful export.",
		}),
	}

	for _, c := range []prometheus.Collector{m.StageDuration, m.SeriesLoaded, m.RowsExported, m.FleetAligned, m.LastSuccessUTC} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// -----------------------------------------------------------------------------

// ObserveStage records how long a stage took. Safe on a nil receiver.
func (m *RunMetrics) ObserveStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Set(time.Since(started).Seconds())
}

// SeriesLoadedFrom counts a loaded series. Safe on a nil receiver.
func (m *RunMetrics) SeriesLoadedFrom(origin string) {
	if m == nil {
		return
	}
	m.SeriesLoaded.WithLabelValues(origin).Inc()
}

// SetFleetAligned records the ephemeris check outcome. Safe on a nil receiver.
func (m *RunMetrics) SetFleetAligned(aligned bool) {
	if m == nil {
		return
	}
	if aligned {
		m.FleetAligned.Set(1)
	} else {
		m.FleetAligned.Set(0)
	}
}

// MarkExported records the exported row count and success time.
func (m *RunMetrics) MarkExported(rows int) {
	if m == nil {
		return
	}
	m.RowsExported.Set(float64(rows))
	m.LastSuccessUTC.SetToCurrentTime()
}

// -----------------------------------------------------------------------------

// Gatherer exposes the registry for tests and exporters.
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format.
func (m *RunMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
