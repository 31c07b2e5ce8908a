package main

import (
	"path/filepath"
	"strings"

	"mms-curvature/src/analysis"
	"mms-curvature/src/data_source/archive"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"
	"mms-curvature/src/network"
	"mms-curvature/src/observability"
	"mms-curvature/src/storage"
	"mms-curvature/src/utils"
)

// -----------------------------------------------------------------------------

// setupNetwork returns a network manager when a remote archive is configured.
func setupNetwork(cfg *models.MConfig, appLogger *logger.Logger) interfaces.INetworkManager {
	if cfg.Archive.BaseURL == "" {
		return nil
	}
	return network.NewAsyncNetworkManager(cfg, appLogger.Named("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupSeriesCache opens the Badger cache when archive.cache_path is set.
func setupSeriesCache(cfg *models.MConfig, appLogger *logger.Logger) (interfaces.ISeriesCache, error) {
	if cfg.Archive.CachePath == "" {
		return nil, nil
	}
	cache, err := storage.NewBadgerSeriesCache(cfg.Archive.CachePath, cfg.Storage.CompressionLevel, appLogger.Named("SeriesCache"))
	if err != nil {
		return nil, err
	}
	appLogger.Info("Series cache: %s", cfg.Archive.CachePath)
	return cache, nil
}

// -----------------------------------------------------------------------------

func setupArchive(
	cfg *models.MConfig,
	networkManager interfaces.INetworkManager,
	cache interfaces.ISeriesCache,
	store interfaces.ISeriesStore,
	metrics *observability.RunMetrics,
	appLogger *logger.Logger,
) *archive.ArchiveSource {
	source := archive.NewArchiveSource(cfg.Archive, networkManager, cache, store, metrics, appLogger.Named("Archive"))
	source.Level = cfg.Run.Level
	return source
}

// -----------------------------------------------------------------------------

// setupSinks builds the configured outputs for filename. The returned cleanup
// releases anything the sinks share.
func setupSinks(cfg *models.MConfig, filename string, appLogger *logger.Logger) ([]analysis.NamedSink, func(), error) {
	var sinks []analysis.NamedSink
	cleanup := func() {}

	csvPath := filepath.Join(cfg.Output.Dir, filename)

	if cfg.Output.SaveCSV {
		var compressor *storage.Compressor
		if strings.EqualFold(cfg.Output.Compress, "zstd") {
			c, err := storage.NewCompressor(cfg.Storage.CompressionLevel)
			if err != nil {
				return nil, cleanup, err
			}
			compressor = c
			cleanup = c.Close
		}
		sink := storage.NewCSVTableSink(csvPath, compressor, appLogger.Named("CSV"))
		sinks = append(sinks, analysis.NamedSink{Name: filepath.Base(sink.Path), Sink: sink})
	}

	if cfg.Output.SaveDB {
		switch cfg.Storage.DBType {
		case "postgres":
			table := utils.ReplaceExt(filename, "")
			sink, err := storage.NewPostgresTableSink(cfg.Storage.DBConnectionString, table, appLogger.Named("PostgresTableSink"))
			if err != nil {
				return nil, cleanup, err
			}
			sinks = append(sinks, analysis.NamedSink{Name: sink.Schema + "." + table, Sink: sink})
		default:
			dbPath := utils.ReplaceExt(csvPath, ".db")
			sink := storage.NewSQLiteTableSink(dbPath, appLogger.Named("SQLiteTableSink"))
			sinks = append(sinks, analysis.NamedSink{Name: filepath.Base(dbPath), Sink: sink})
		}
	}

	return sinks, cleanup, nil
}
