package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mms-curvature/src/analysis"
	"mms-curvature/src/analysis/core"
	"mms-curvature/src/config"
	"mms-curvature/src/logger"
	"mms-curvature/src/observability"
	"mms-curvature/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	trangeStart := flag.String("start", "", "override run.trange start, e.g. 2017-06-17/20:00")
	trangeEnd := flag.String("end", "", "override run.trange end")
	flag.Parse()

	timeStart := time.Now().Format("15:04:05")

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *trangeStart != "" || *trangeEnd != "" {
		if *trangeStart != "" {
			cfg.Run.TRange[0] = *trangeStart
		}
		if *trangeEnd != "" {
			cfg.Run.TRange[1] = *trangeEnd
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Invalid time range: %v\n", err)
			os.Exit(1)
		}
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)
	if !cfg.Output.SaveCSV && !cfg.Output.SaveDB {
		appLogger.Warning("Neither save_csv nor save_db is set, results will not be written")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Tracing + metrics
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	}, appLogger.Named("Tracing"))
	if err != nil {
		appLogger.Critical("Failed to init tracing: %v", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, appLogger)

	metrics, err := observability.NewRunMetrics()
	if err != nil {
		appLogger.Critical("Failed to init metrics: %v", err)
	}

	// 2. Data access
	store := utils.NewMemoryManager()
	defer store.Cleanup()

	cache, err := setupSeriesCache(cfg.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to open series cache: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	source := setupArchive(cfg.MConfig, setupNetwork(cfg.MConfig, appLogger), cache, store, metrics, appLogger)

	// 3. Analysis
	analyzer := analysis.NewAnalysisFacade(cfg.MConfig, appLogger.Named("Analysis"), analysis.Dependencies{
		Fields:     source,
		Moments:    source,
		TQF:        source,
		Store:      store,
		Curvature:  analysis.NewHarveyCurvature(),
		Gyroradius: core.GyroradiusCalculator{},
		Metrics:    metrics,
	})

	result, err := analyzer.Run(ctx)
	if err != nil {
		writeMetrics(metrics, cfg.Metrics.TextfilePath, appLogger)
		appLogger.Critical("Run failed: %v", err)
	}
	if !result.FleetAligned {
		appLogger.Warning("Fleet position columns left empty")
	}

	// 4. Export
	filename := utils.GenerateFilename(cfg.TRange(), cfg.Output.Prefix, cfg.Output.Suffix)
	sinks, closeSinks, err := setupSinks(cfg.MConfig, filename, appLogger)
	if err != nil {
		appLogger.Critical("Failed to prepare output: %v", err)
	}
	defer closeSinks()

	if err := analyzer.Export(ctx, result.Table, sinks); err != nil {
		writeMetrics(metrics, cfg.Metrics.TextfilePath, appLogger)
		appLogger.Critical("Export failed: %v", err)
	}

	writeMetrics(metrics, cfg.Metrics.TextfilePath, appLogger)

	appLogger.Info("Time started: %s", timeStart)
	appLogger.Info("Time finished: %s", time.Now().Format("15:04:05"))
}

// -----------------------------------------------------------------------------

func writeMetrics(metrics *observability.RunMetrics, path string, log *logger.Logger) {
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warning("%v", err)
	}
}
