package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for BuildDashboardModel()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger         *zap.Logger
	InsightOptions []InsightOption
	AnomalyOrder   AnomalyOrder
	DefaultGroupBy Dimension // grouping used when params leave it empty
}

// WithLogger routes debug output of the pipeline to log.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// WithInsightOptions forwards significance floors to GenerateInsights.
func WithInsightOptions(opts ...InsightOption) Option {
	return func(c *config) {
		c.InsightOptions = append(c.InsightOptions, opts...)
	}
}

// WithAnomalyOrder sets the order of DashboardModel.Anomalies.
func WithAnomalyOrder(order AnomalyOrder) Option {
	return func(c *config) {
		c.AnomalyOrder = order
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:         zap.NewNop(),
		AnomalyOrder:   ByMagnitude,
		DefaultGroupBy: DimensionCategory,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
