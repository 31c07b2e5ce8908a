package config

import (
	"fmt"
	"os"
	"strings"

	"mms-curvature/src/helpers"
	"mms-curvature/src/models"
	"mms-curvature/src/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// DefaultConfig returns the parameters of the reference run.
func DefaultConfig() *Config {
	return &Config{MConfig: &models.MConfig{
		Name:     "CurvatureRunner",
		LogLevel: "info",
		Run: models.MRunConfig{
			TRange:   []string{"2017-06-17/20:00", "2017-06-17/21:00"},
			DataRate: utils.DataRateSurvey,
			Level:    "l2",
		},
		Archive: models.MArchiveConfig{
			DataDir: "./data",
		},
		Output: models.MOutputConfig{
			Dir:     ".",
			Prefix:  "CurveGSM_rg_tqf_",
			Suffix:  "_tim1",
			SaveCSV: true,
			SaveDB:  false,
		},
		Storage: models.MStorageConfig{
			DBType:           "sqlite",
			CompressionLevel: 3,
		},
		Network: models.MNetworkConfig{
			RequestTimeout: 30,
			MaxRetries:     3,
		},
		Tracing: models.MTracingConfig{
			ServiceName: "mms-curvature",
		},
	}}
}

// -----------------------------------------------------------------------------

// NewConfig creates a Config from a YAML file layered over DefaultConfig,
// then applies environment overrides (optionally from a .env file).
func NewConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// 1. Read the YAML file content
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, helpers.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", configPath), err)
		}

		// 2. Unmarshal data over the defaults
		if err := yaml.Unmarshal(data, config.MConfig); err != nil {
			return nil, helpers.NewConfigurationError("failed to parse config from YAML", err)
		}
	}

	// 3. Environment overlay
	_ = godotenv.Load() // ignore missing file
	config.applyEnv()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() {
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Archive.DataDir = v
	}
	if v := os.Getenv("ARCHIVE_BASE_URL"); v != "" {
		c.Archive.BaseURL = v
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		c.Storage.DBConnectionString = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// -----------------------------------------------------------------------------

// TRange returns the configured time range as a fixed pair.
func (c *Config) TRange() [2]string {
	var tr [2]string
	copy(tr[:], c.Run.TRange)
	return tr
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation. Failures are returned as
// *helpers.ConfigurationError.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return helpers.NewConfigurationError("config validation failed", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Run parameters
	if len(c.Run.TRange) != 2 {
		return fmt.Errorf("trange must have exactly 2 elements, got %d", len(c.Run.TRange))
	}
	if _, _, err := utils.ParseTimeRange(c.TRange()); err != nil {
		return fmt.Errorf("invalid trange: %w", err)
	}
	if c.Run.DataRate != utils.DataRateSurvey && c.Run.DataRate != utils.DataRateBurst {
		return fmt.Errorf("invalid data rate %q (must be %s or %s)", c.Run.DataRate, utils.DataRateSurvey, utils.DataRateBurst)
	}
	if c.Run.Level == "" {
		return fmt.Errorf("data level cannot be empty")
	}

	// Archive
	if c.Archive.DataDir == "" {
		return fmt.Errorf("archive data directory cannot be empty")
	}

	// Output
	switch strings.ToLower(c.Output.Compress) {
	case "", "zstd":
	default:
		return fmt.Errorf("unsupported compression %q", c.Output.Compress)
	}

	// Storage configuration
	switch c.Storage.DBType {
	case "sqlite":
	case "postgres":
		if c.Output.SaveDB && c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type %q", c.Storage.DBType)
	}

	// Network configuration
	if c.Archive.BaseURL != "" {
		if c.Network.RequestTimeout <= 0 {
			return fmt.Errorf("request timeout must be greater than 0")
		}
		if c.Network.MaxRetries < 0 {
			return fmt.Errorf("max retries cannot be negative")
		}
	}

	if c.Analysis.MECTimeTolerance < 0 {
		return fmt.Errorf("mec time tolerance cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
