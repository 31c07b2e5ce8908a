package analysis

import (
	"context"
	"fmt"
	"time"

	"mms-curvature/src/analysis/core"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"
	"mms-curvature/src/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies are the collaborators the facade orchestrates.
type Dependencies struct {
	Fields     interfaces.IFieldLoader
	Moments    interfaces.IMomentsLoader
	TQF        interfaces.ITQFLoader
	Store      interfaces.ISeriesStore
	Curvature  interfaces.ICurvatureCalculator
	Gyroradius interfaces.IGyroradiusCalculator
	Metrics    *observability.RunMetrics
}

// AnalysisFacade runs the whole derivation for one time range.
type AnalysisFacade struct {
	Config    *models.MConfig
	Logger    *logger.Logger
	Fields    interfaces.IFieldLoader
	Curvature interfaces.ICurvatureCalculator
	Gyro      *GyroradiusEstimator
	Fleet     *FleetLocator
	TQF       interfaces.ITQFLoader
	Metrics   *observability.RunMetrics

	tracer trace.Tracer
}

// RunResult is the table plus the facts worth reporting about how it was made.
type RunResult struct {
	Table        *models.MResultTable
	FleetAligned bool
	TQFBegin     int
	TQFEnd       int
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger, deps Dependencies) *AnalysisFacade {
	return &AnalysisFacade{
		Config:    cfg,
		Logger:    log,
		Fields:    deps.Fields,
		Curvature: deps.Curvature,
		Gyro:      NewGyroradiusEstimator(deps.Moments, deps.Gyroradius),
		Fleet:     NewFleetLocator(deps.Store, log, cfg.Analysis.MECTimeTolerance),
		TQF:       deps.TQF,
		Metrics:   deps.Metrics,
		tracer:    observability.Tracer(),
	}
}

// -----------------------------------------------------------------------------

// stage wraps one step in a span and a duration metric.
func (a *AnalysisFacade) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	started := time.Now()
	ctx, span := a.tracer.Start(ctx, name)
	defer span.End()

	err := fn(ctx)
	a.Metrics.ObserveStage(name, started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// -----------------------------------------------------------------------------

// Run loads the inputs and derives every column of the result table.
func (a *AnalysisFacade) Run(ctx context.Context) (*RunResult, error) {
	trange := [2]string{a.Config.Run.TRange[0], a.Config.Run.TRange[1]}
	dataRate := a.Config.Run.DataRate
	timeStart := time.Now()

	ctx, span := a.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("trange.start", trange[0]),
		attribute.String("trange.end", trange[1]),
		attribute.String("data_rate", dataRate),
	))
	defer span.End()

	a.Logger.Info("Files Loading:")

	// 1. Ephemeris + magnetometer
	var fleet [4]models.MSpacecraftFields
	if err := a.stage(ctx, "load-fields", func(ctx context.Context) error {
		var err error
		fleet, err = a.Fields.LoadFields(ctx, trange, dataRate)
		return err
	}); err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}

	a.Logger.Info("Time started: %s", timeStart.Format("15:04:05"))
	a.Logger.Info("Time Loaded: %s", time.Now().Format("15:04:05"))

	// 2. Curvature
	a.Logger.Info("Calculating Curvature:")
	var curv *models.MCurvatureResult
	if err := a.stage(ctx, "curvature", func(ctx context.Context) error {
		var err error
		curv, err = a.Curvature.Calculate(fleet)
		return err
	}); err != nil {
		return nil, fmt.Errorf("curvature: %w", err)
	}
	a.Logger.Info("Done calculating Curvature.")

	// 3. Gyroradii, meters -> km
	var rGi, rGe []float64
	if err := a.stage(ctx, "gyroradius", func(ctx context.Context) error {
		rI, rE, err := a.Gyro.MesoGyroradius(ctx, trange, dataRate, a.Config.Run.Level, curv.TMaster, curv.BMag)
		if err != nil {
			return err
		}
		rGi = core.Scale(rI, 1.0/1000)
		rGe = core.Scale(rE, 1.0/1000)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("gyroradius: %w", err)
	}

	// 4. Fleet position
	var mlt, radius []float64
	if err := a.stage(ctx, "fleet-position", func(ctx context.Context) error {
		posTimes := [4][]float64{fleet[0].PosTime, fleet[1].PosTime, fleet[2].PosTime, fleet[3].PosTime}
		var err error
		mlt, radius, err = a.Fleet.FleetPos(posTimes, curv.RM, curv.TMaster)
		return err
	}); err != nil {
		return nil, fmt.Errorf("fleet position: %w", err)
	}
	aligned := mlt != nil
	a.Metrics.SetFleetAligned(aligned)

	// 5. Tetrahedron quality factor
	var tqf []float64
	var begin, end int
	if err := a.stage(ctx, "tqf", func(ctx context.Context) error {
		series, err := a.TQF.LoadTQF(ctx, trange)
		if err != nil {
			return err
		}
		tqf, begin, end, err = AlignTQF(series, curv.TMaster)
		return err
	}); err != nil {
		return nil, fmt.Errorf("tqf: %w", err)
	}
	a.Logger.Debug("*** bcnt= %d   ecnt= %d   ***", begin, end)

	// 6. Table
	table, err := BuildResultTable(TableInputs{
		TMaster: curv.TMaster,
		Curve:   curv.Curve,
		BMag:    curv.BMag,
		RGiKm:   rGi,
		RGeKm:   rGe,
		MLT:     mlt,
		Radius:  radius,
		RM:      curv.RM,
		TQF:     tqf,
	})
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(table.Index)))
	return &RunResult{Table: table, FleetAligned: aligned, TQFBegin: begin, TQFEnd: end}, nil
}

// -----------------------------------------------------------------------------

// Export writes the table to every sink in order. The first failure stops
// the export.
func (a *AnalysisFacade) Export(ctx context.Context, table *models.MResultTable, sinks []NamedSink) error {
	return a.stage(ctx, "export", func(ctx context.Context) error {
		for _, s := range sinks {
			a.Logger.Info("Writing File: %s", s.Name)
			if err := writeSink(ctx, s.Sink, table); err != nil {
				return fmt.Errorf("write %s: %w", s.Name, err)
			}
		}
		a.Metrics.MarkExported(len(table.Index))
		return nil
	})
}

// NamedSink pairs a sink with the name shown in status output.
type NamedSink struct {
	Name string
	Sink interfaces.ITableSink
}

// writeSink closes the sink even when Initialize fails.
func writeSink(ctx context.Context, sink interfaces.ITableSink, table *models.MResultTable) (err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := sink.Initialize(ctx); err != nil {
		return err
	}
	return sink.SaveTable(ctx, table)
}
