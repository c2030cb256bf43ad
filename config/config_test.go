package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateAll())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, uint32(42), cfg.Data.Seed)
	assert.Equal(t, 14, cfg.Analysis.RangeDays)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFileIsTolerated(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "category", cfg.Analysis.GroupBy)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendlens.yaml")
	body := `
server:
  addr: ":9090"
logging:
  level: debug
  format: json
data:
  seed: 7
  scenario: spike
  days: 30
  end_date: "2026-01-19"
analysis:
  range_days: 7
  group_by: region
  z_threshold: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, uint32(7), cfg.Data.Seed)
	assert.Equal(t, "spike", cfg.Data.Scenario)
	assert.Equal(t, 30, cfg.Data.Days)
	assert.Equal(t, "2026-01-19", cfg.Data.EndDate)
	assert.Equal(t, 7, cfg.Analysis.RangeDays)
	assert.Equal(t, "region", cfg.Analysis.GroupBy)
	assert.Equal(t, 3.0, cfg.Analysis.ZThreshold)
	// untouched keys keep defaults
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600))

	t.Setenv("SPENDLENS_SERVER_ADDR", ":7070")
	t.Setenv("SPENDLENS_ANALYSIS_RANGE_DAYS", "21")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 21, cfg.Analysis.RangeDays)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SPENDLENS_ANALYSIS_GROUP_BY", "planet")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "analysis.group_by")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeoutSec = -1 }, "server.shutdown_timeout_sec"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad scenario", func(c *Config) { c.Data.Scenario = "meteor" }, "data.scenario"},
		{"zero days", func(c *Config) { c.Data.Days = 0 }, "data.days"},
		{"file without path", func(c *Config) { c.Data.Source = SourceFile }, "data.path"},
		{"bad source", func(c *Config) { c.Data.Source = "s3" }, "data.source"},
		{"bad end date", func(c *Config) { c.Data.EndDate = "2026-02-30" }, "data.end_date"},
		{"zero range", func(c *Config) { c.Analysis.RangeDays = 0 }, "analysis.range_days"},
		{"bad group", func(c *Config) { c.Analysis.GroupBy = "planet" }, "analysis.group_by"},
		{"negative z", func(c *Config) { c.Analysis.ZThreshold = -1 }, "analysis.z_threshold"},
		{"empty model", func(c *Config) { c.Translator.Model = "" }, "translator.model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			var verr *ValidationError
			require.ErrorAs(t, errs[0], &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "server.addr", Message: "address is required"}
	assert.Equal(t, "config validation failed for server.addr: address is required", err.Error())
}

func TestTranslatorEnv(t *testing.T) {
	t.Setenv("SPENDLENS_TRANSLATOR_API_KEY", "k-123")
	t.Setenv("SPENDLENS_TRANSLATOR_MODEL", "gemini-2.0-flash")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "k-123", cfg.Translator.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Translator.Model)
}
