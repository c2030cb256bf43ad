package config

import (
	"fmt"
	"strings"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/synth"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns validation errors.
func (c *Config) Validate() []error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.Addr == "" {
		add("server.addr", "address is required")
	}
	if c.Server.ShutdownTimeoutSec < 0 {
		add("server.shutdown_timeout_sec", "must be >= 0, got %d", c.Server.ShutdownTimeoutSec)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		add("logging.format", "must be json or console, got %q", c.Logging.Format)
	}

	switch c.Data.Source {
	case SourceSynthetic:
		if _, err := synth.ParseScenario(c.Data.Scenario); err != nil {
			add("data.scenario", "%v", err)
		}
		if c.Data.Days <= 0 {
			add("data.days", "must be > 0, got %d", c.Data.Days)
		}
	case SourceFile:
		if c.Data.Path == "" {
			add("data.path", "path is required when source is file")
		}
	default:
		add("data.source", "must be synthetic or file, got %q", c.Data.Source)
	}
	if c.Data.EndDate != "" && !dates.Valid(c.Data.EndDate) {
		add("data.end_date", "must be YYYY-MM-DD, got %q", c.Data.EndDate)
	}

	if c.Analysis.RangeDays <= 0 {
		add("analysis.range_days", "must be > 0, got %d", c.Analysis.RangeDays)
	}
	if _, err := engine.ParseDimension(c.Analysis.GroupBy); err != nil {
		add("analysis.group_by", "%v", err)
	}
	if c.Analysis.ZThreshold < 0 {
		add("analysis.z_threshold", "must be >= 0, got %v", c.Analysis.ZThreshold)
	}

	if c.Translator.Model == "" {
		add("translator.model", "model is required")
	}

	return errs
}

// ValidateAll joins every validation error into one, or returns nil.
func (c *Config) ValidateAll() error {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
