package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// PathsConfig contains file system paths configuration. Relative entries are
// resolved against the executable directory by the Paths type.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// PipelineConfig contains the transform pipeline settings
type PipelineConfig struct {
	RawFile        string        `yaml:"raw_file" envconfig:"RAW_FILE" default:"street.csv" validate:"required"`
	OutcomesFile   string        `yaml:"outcomes_file" envconfig:"OUTCOMES_FILE" default:"outcomes.csv" validate:"required"`
	StageTimeout   time.Duration `yaml:"stage_timeout" envconfig:"STAGE_TIMEOUT" default:"10m" validate:"gt=0"`
	ExcelReport    bool          `yaml:"excel_report" envconfig:"EXCEL_REPORT" default:"true"`
	WriteBOMPrefix bool          `yaml:"write_bom_prefix" envconfig:"WRITE_BOM_PREFIX" default:"true"`
}

// Load loads configuration from .env, environment variables and an optional
// YAML config file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	// Best effort .env preload; a missing .env is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CRIMEFLOW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Only string and duration fields participate: an unset value is the zero
// value, so the file can fill it in. The boolean toggles (ExcelReport,
// WriteBOMPrefix) always carry their envconfig defaults and a file-level
// false would be indistinguishable from unset; they are overridden through
// the environment or CLI flags only. Format is pinned to json by Validate.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Pipeline.RawFile == "" {
		envConfig.Pipeline.RawFile = fileConfig.Pipeline.RawFile
	}
	if envConfig.Pipeline.OutcomesFile == "" {
		envConfig.Pipeline.OutcomesFile = fileConfig.Pipeline.OutcomesFile
	}
	if envConfig.Pipeline.StageTimeout == 0 {
		envConfig.Pipeline.StageTimeout = fileConfig.Pipeline.StageTimeout
	}

	return envConfig
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	// Format is normalised rather than rejected: the logger only emits JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/pipeline.log"
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/pipeline.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Pipeline: PipelineConfig{
			RawFile:        "street.csv",
			OutcomesFile:   "outcomes.csv",
			StageTimeout:   10 * time.Minute,
			ExcelReport:    true,
			WriteBOMPrefix: true,
		},
	}
}
