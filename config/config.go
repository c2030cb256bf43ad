// Package config loads spendlens settings from defaults, an optional YAML
// file and SPENDLENS_* environment variables, in increasing precedence.
package config

// Config is the full runtime configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server" json:"server"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" json:"logging"`
	Data       DataConfig       `mapstructure:"data" yaml:"data" json:"data"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Translator TranslatorConfig `mapstructure:"translator" yaml:"translator" json:"translator"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string   `mapstructure:"addr" yaml:"addr" json:"addr"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format" json:"format"` // json or console
	File       string `mapstructure:"file" yaml:"file" json:"file"`       // empty = stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
}

// DataConfig selects the dataset.
type DataConfig struct {
	Source   string `mapstructure:"source" yaml:"source" json:"source"` // synthetic or file
	Path     string `mapstructure:"path" yaml:"path" json:"path"`
	Seed     uint32 `mapstructure:"seed" yaml:"seed" json:"seed"`
	Scenario string `mapstructure:"scenario" yaml:"scenario" json:"scenario"`
	Days     int    `mapstructure:"days" yaml:"days" json:"days"`
	EndDate  string `mapstructure:"end_date" yaml:"end_date" json:"end_date"`
}

// AnalysisConfig holds dashboard defaults.
type AnalysisConfig struct {
	RangeDays  int     `mapstructure:"range_days" yaml:"range_days" json:"range_days"`
	GroupBy    string  `mapstructure:"group_by" yaml:"group_by" json:"group_by"`
	ZThreshold float64 `mapstructure:"z_threshold" yaml:"z_threshold" json:"z_threshold"`
}

// TranslatorConfig configures the natural-language question translator.
// APIKey falls back to GEMINI_API_KEY when empty.
type TranslatorConfig struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key" json:"-"`
	Model    string `mapstructure:"model" yaml:"model" json:"model"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
}

// Data sources.
const (
	SourceSynthetic = "synthetic"
	SourceFile      = "file"
)

// DefaultConfig returns a configuration with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Server defaults
	cfg.Server.Addr = ":8080"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.ShutdownTimeoutSec = 15

	// Logging defaults
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28

	// Data defaults
	cfg.Data.Source = SourceSynthetic
	cfg.Data.Seed = 42
	cfg.Data.Scenario = "baseline"
	cfg.Data.Days = 60

	// Analysis defaults
	cfg.Analysis.RangeDays = 14
	cfg.Analysis.GroupBy = "category"
	cfg.Analysis.ZThreshold = 2.5

	// Translator defaults
	cfg.Translator.Model = "gemini-2.5-flash-lite"
	cfg.Translator.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"

	return cfg
}
