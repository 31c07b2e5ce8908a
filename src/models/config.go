package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	LogLevel string          `yaml:"log_level"`
	Run      MRunConfig      `yaml:"run"`
	Archive  MArchiveConfig  `yaml:"archive"`
	Output   MOutputConfig   `yaml:"output"`
	Storage  MStorageConfig  `yaml:"storage"`
	Network  MNetworkConfig  `yaml:"network"`
	Analysis MAnalysisConfig `yaml:"analysis"`
	Metrics  MMetricsConfig  `yaml:"metrics"`
	Tracing  MTracingConfig  `yaml:"tracing"`
}

type MRunConfig struct {
	TRange   []string `yaml:"trange"`
	DataRate string   `yaml:"data_rate"` // srvy or brst
	Level    string   `yaml:"level"`
}

type MArchiveConfig struct {
	DataDir   string `yaml:"data_dir"`
	BaseURL   string `yaml:"base_url"`  // Optional remote mirror
	CachePath string `yaml:"cache_path"` // Optional badger series cache
}

type MOutputConfig struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	Suffix   string `yaml:"suffix"`
	SaveCSV  bool   `yaml:"save_csv"`
	SaveDB   bool   `yaml:"save_db"`
	Compress string `yaml:"compress"` // "" or zstd
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // sqlite or postgres
	DBConnectionString string `yaml:"db_connection_string"`
	CompressionLevel   int    `yaml:"compression_level"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MAnalysisConfig struct {
	MECTimeTolerance float64 `yaml:"mec_time_tolerance"` // seconds, 0 = exact match
}

type MMetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

type MTracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}
