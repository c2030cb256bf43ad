// Package spendlens compares two windows of daily cloud spend and explains
// the difference.
//
// Usage:
//
//	import "github.com/spektr-org/spendlens/engine"
//
//	model, err := engine.BuildDashboardModel(rows, engine.DashboardParams{
//	    Windows: engine.Rolling(14, ""),
//	    GroupBy: engine.DimensionCategory,
//	})
//
// The model carries KPIs, the daily series, ranked drivers, anomalous days,
// prioritized insights and a markdown report. Records come from CSV/JSON
// files (helpers) or the deterministic generator (synth).
//
// All computation is local. Only the optional translator package calls an
// external service, and it sends dataset metadata, never rows.
package spendlens
