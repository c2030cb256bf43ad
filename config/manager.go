package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: SPENDLENS_SERVER_ADDR etc.
const EnvPrefix = "SPENDLENS"

// Manager owns a viper instance layered as defaults → file → env. Callers
// may bind extra sources (CLI flags) through Viper() before Load.
type Manager struct {
	path  string
	viper *viper.Viper
}

// NewManager creates a manager for an optional YAML file. An empty path
// means defaults and environment only.
func NewManager(path string) *Manager {
	m := &Manager{path: path, viper: viper.New()}
	m.viper.SetConfigType("yaml")
	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	m.setDefaults()
	return m
}

// Viper exposes the underlying instance for flag binding.
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// Load reads every source, unmarshals and validates.
func (m *Manager) Load() (*Config, error) {
	if m.path != "" {
		m.viper.SetConfigFile(m.path)
		if err := m.viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.ValidateAll(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is shorthand for NewManager(path).Load().
func Load(path string) (*Config, error) {
	return NewManager(path).Load()
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func (m *Manager) setDefaults() {
	d := DefaultConfig()
	v := m.viper

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout_sec", d.Server.ShutdownTimeoutSec)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)

	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.seed", d.Data.Seed)
	v.SetDefault("data.scenario", d.Data.Scenario)
	v.SetDefault("data.days", d.Data.Days)
	v.SetDefault("data.end_date", d.Data.EndDate)

	v.SetDefault("analysis.range_days", d.Analysis.RangeDays)
	v.SetDefault("analysis.group_by", d.Analysis.GroupBy)
	v.SetDefault("analysis.z_threshold", d.Analysis.ZThreshold)

	v.SetDefault("translator.api_key", d.Translator.APIKey)
	v.SetDefault("translator.model", d.Translator.Model)
	v.SetDefault("translator.endpoint", d.Translator.Endpoint)
}
