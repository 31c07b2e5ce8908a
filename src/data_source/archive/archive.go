package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mms-curvature/src/analysis"
	"mms-curvature/src/helpers"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"
	"mms-curvature/src/observability"
	"mms-curvature/src/utils"
)

// Product names, in the tplot naming scheme.
const (
	productPosition = "mec_r_gsm"
	productMLT      = "mec_mlt"
	productTQF      = "mms_tqf"
)

// DefaultLevel is the FGM data level used when none is configured.
const DefaultLevel = "l2"

// Series origins reported to the metrics.
const (
	OriginCache  = "cache"
	OriginLocal  = "local"
	OriginRemote = "remote"
)

var productUnits = map[string]string{
	productPosition: "km",
	productMLT:      "hours",
	"fgm":           "nT",
	"tempperp":      "eV",
}

// -----------------------------------------------------------------------------
// ArchiveSource serves MMS products from a directory of CSV exports, falling
// back to a remote mirror for products not present locally.
// -----------------------------------------------------------------------------

type ArchiveSource struct {
	// Level selects the FGM product, as in mms1_fgm_b_gsm_srvy_<level>.
	Level   string
	Config  models.MArchiveConfig
	Network interfaces.INetworkManager
	Cache   interfaces.ISeriesCache
	Store   interfaces.ISeriesStore
	Metrics *observability.RunMetrics
	Logger  *logger.Logger

	resampler analysis.TimeSeriesResampler
}

// -----------------------------------------------------------------------------

// NewArchiveSource builds a source over cfg.DataDir. network and cache may be
// nil.
func NewArchiveSource(
	cfg models.MArchiveConfig,
	network interfaces.INetworkManager,
	cache interfaces.ISeriesCache,
	store interfaces.ISeriesStore,
	metrics *observability.RunMetrics,
	log *logger.Logger,
) *ArchiveSource {
	return &ArchiveSource{
		Level:   DefaultLevel,
		Config:  cfg,
		Network: network,
		Cache:   cache,
		Store:   store,
		Metrics: metrics,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// LoadFields loads MEC position, MEC MLT and FGM field for the four spacecraft.
func (s *ArchiveSource) LoadFields(ctx context.Context, trange [2]string, dataRate string) ([4]models.MSpacecraftFields, error) {
	var fleet [4]models.MSpacecraftFields

	for i, craft := range utils.SpacecraftIDs {
		pos, err := s.loadVectors(ctx, utils.SeriesName(craft, productPosition), trange, productUnits[productPosition])
		if err != nil {
			return fleet, err
		}

		// MLT is only looked up later, by name.
		if _, err := s.load(ctx, utils.SeriesName(craft, productMLT), trange, productUnits[productMLT]); err != nil {
			return fleet, err
		}

		magName := utils.SeriesName(craft, fmt.Sprintf("fgm_b_gsm_%s_%s", dataRate, s.level()))
		mag, err := s.loadVectors(ctx, magName, trange, productUnits["fgm"])
		if err != nil {
			return fleet, err
		}

		fleet[i] = models.MSpacecraftFields{
			Spacecraft: craft,
			PosTime:    pos.Times,
			Pos:        pos.Vectors(),
			MagTime:    mag.Times,
			Mag:        mag.Vectors(),
		}
	}
	return fleet, nil
}

// -----------------------------------------------------------------------------

func (s *ArchiveSource) level() string {
	if s.Level == "" {
		return DefaultLevel
	}
	return s.Level
}

// -----------------------------------------------------------------------------

// LoadMoments loads DIS and DES perpendicular temperatures for one spacecraft.
func (s *ArchiveSource) LoadMoments(ctx context.Context, trange [2]string, dataRate, level, craft string) (models.MPlasmaMoments, error) {
	rate := utils.FPIDataRate(dataRate)

	ion, err := s.load(ctx, utils.SeriesName(craft, "dis_tempperp_"+rate), trange, productUnits["tempperp"])
	if err != nil {
		return models.MPlasmaMoments{}, err
	}
	elec, err := s.load(ctx, utils.SeriesName(craft, "des_tempperp_"+rate), trange, productUnits["tempperp"])
	if err != nil {
		return models.MPlasmaMoments{}, err
	}

	s.Logger.Debug("mms%s moments (%s, %s): %d ion, %d electron samples", craft, rate, level, ion.Len(), elec.Len())
	return models.MPlasmaMoments{
		Spacecraft:       craft,
		IonTime:          ion.Times,
		IonTempPerp:      ion.Channel(0),
		ElectronTime:     elec.Times,
		ElectronTempPerp: elec.Channel(0),
	}, nil
}

// -----------------------------------------------------------------------------

// LoadTQF loads the tetrahedron quality factor.
func (s *ArchiveSource) LoadTQF(ctx context.Context, trange [2]string) (models.MTimeSeries, error) {
	series, err := s.load(ctx, productTQF, trange, "")
	if err != nil {
		return models.MTimeSeries{}, err
	}
	return models.MTimeSeries{Times: series.Times, Values: rowsOf(series.Channel(0))}, nil
}

// -----------------------------------------------------------------------------

func (s *ArchiveSource) loadVectors(ctx context.Context, name string, trange [2]string, units string) (models.MTimeSeries, error) {
	series, err := s.load(ctx, name, trange, units)
	if err != nil {
		return models.MTimeSeries{}, err
	}
	if series.Len() > 0 && len(series.Values[0]) < 3 {
		return models.MTimeSeries{}, helpers.NewDataSourceError(
			fmt.Sprintf("%s has %d channels, need 3 vector components", name, len(series.Values[0])), nil)
	}
	return series, nil
}

// -----------------------------------------------------------------------------

// load resolves one product through cache, local file and remote mirror, in
// that order, clips it to trange and registers it in the series store.
func (s *ArchiveSource) load(ctx context.Context, name string, trange [2]string, units string) (models.MTimeSeries, error) {
	start, end, err := utils.ParseTimeRange(trange)
	if err != nil {
		return models.MTimeSeries{}, helpers.NewValidationError("bad time range", err)
	}

	key := fmt.Sprintf("%s/%.3f-%.3f", name, start, end)
	path := s.productPath(name)

	series, origin, err := s.resolve(ctx, key, name, path, start, end)
	if err != nil {
		return models.MTimeSeries{}, err
	}
	if series.Len() == 0 {
		return models.MTimeSeries{}, helpers.NewDataSourceError(
			fmt.Sprintf("%s has no samples in [%s, %s]", name, trange[0], trange[1]), nil)
	}

	if origin != OriginCache && s.Cache != nil {
		if err := s.Cache.Store(key, series); err != nil {
			s.Logger.Warning("Failed to cache %s: %v", name, err)
		}
	}
	s.Metrics.SeriesLoadedFrom(origin)
	s.Logger.Debug("Loaded %s from %s (%d samples)", name, origin, series.Len())

	meta := models.MSeriesMeta{Name: name, Units: units, Source: path}
	if err := s.Store.Put(meta, series); err != nil {
		return models.MTimeSeries{}, err
	}
	return series, nil
}

// -----------------------------------------------------------------------------

func (s *ArchiveSource) resolve(ctx context.Context, key, name, path string, start, end float64) (models.MTimeSeries, string, error) {
	if s.Cache != nil {
		cached, ok, err := s.Cache.Load(key)
		if err != nil {
			s.Logger.Warning("Series cache read failed for %s: %v", name, err)
		} else if ok {
			return cached, OriginCache, nil
		}
	}

	raw, err := os.ReadFile(path)
	origin := OriginLocal
	if os.IsNotExist(err) {
		raw, err = s.download(ctx, name, path)
		origin = OriginRemote
	}
	if err != nil {
		return models.MTimeSeries{}, "", err
	}

	series, _, err := ParseProduct(bytes.NewReader(raw))
	if err != nil {
		return models.MTimeSeries{}, "", helpers.NewDataSourceError("failed to parse "+path, err)
	}
	return s.resampler.Clip(series, start, end), origin, nil
}

// -----------------------------------------------------------------------------

// download fetches a product from the mirror and keeps a local copy.
func (s *ArchiveSource) download(ctx context.Context, name, path string) ([]byte, error) {
	if s.Network == nil || s.Config.BaseURL == "" {
		return nil, helpers.NewDataSourceError(
			fmt.Sprintf("product %s not found in %s and no archive base_url configured", name, s.Config.DataDir), nil)
	}

	url := strings.TrimRight(s.Config.BaseURL, "/") + "/" + name + ".csv"
	s.Logger.Info("Downloading %s", url)

	raw, err := s.Network.Get(ctx, url, nil)
	if err != nil {
		return nil, helpers.NewDataSourceError("failed to download "+name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.Logger.Warning("Cannot keep local copy of %s: %v", name, err)
		return raw, nil
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.Logger.Warning("Cannot keep local copy of %s: %v", name, err)
	}
	return raw, nil
}

// -----------------------------------------------------------------------------

func (s *ArchiveSource) productPath(name string) string {
	return filepath.Join(s.Config.DataDir, name+".csv")
}

// -----------------------------------------------------------------------------

func rowsOf(values []float64) [][]float64 {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	return rows
}
