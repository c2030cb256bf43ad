package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// DASHBOARD — Filter → Windows → Totals → Series → Anomalies → Drivers →
//             Insights → Report
// ============================================================================
// Entry point: BuildDashboardModel(rows, params, opts...)
//
// Every call builds a fresh model. Edge cases inside the computation
// (no rows in a window, zero previous total, flat series) come back as
// zero values, nil pointers or empty lists; only bad caller input errors.
// ============================================================================

// DashboardParams selects windows, grouping and filtering for one model.
type DashboardParams struct {
	Windows           WindowSpec `json:"windows" yaml:"windows"`
	GroupBy           Dimension  `json:"groupBy" yaml:"groupBy"`
	Filter            *Filter    `json:"filter,omitempty" yaml:"filter,omitempty"`
	AnomalyZThreshold float64    `json:"anomalyZThreshold,omitempty" yaml:"anomalyZThreshold,omitempty"`
}

// BuildDashboardModel runs the full pipeline over rows.
func BuildDashboardModel(rows []SpendRecord, params DashboardParams, opts ...Option) (*DashboardModel, error) {
	return BuildDashboard(NewSliceView(rows), params, opts...)
}

// BuildDashboard is BuildDashboardModel over any RecordView.
//
// When the window end date is left empty it defaults to the latest date in
// the filtered view, or in the unfiltered view when the filter matched
// nothing.
func BuildDashboard(view RecordView, params DashboardParams, opts ...Option) (*DashboardModel, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	groupBy := params.GroupBy
	if groupBy == "" {
		groupBy = cfg.DefaultGroupBy
	}
	groupBy, err := ParseDimension(string(groupBy))
	if err != nil {
		return nil, err
	}

	// 1. Filter → SubView (zero-copy)
	filtered := ApplyFilter(view, params.Filter)
	log.Debug("dashboard: filtered records",
		zap.Int("records", view.Len()),
		zap.Int("matched", filtered.Len()))

	// 2. Windows
	spec := params.Windows
	resolveFrom := filtered
	if filtered.Len() == 0 {
		resolveFrom = view
	}
	windows, err := ResolveWindows(spec, resolveFrom)
	if err != nil {
		return nil, err
	}
	cur, prev := windows.Current, windows.Previous
	log.Debug("dashboard: resolved windows",
		zap.String("mode", string(spec.Mode)),
		zap.Stringer("current", cur),
		zap.Stringer("previous", prev))

	// 3. Totals
	total := SumInWindow(filtered, cur)
	prevTotal := SumInWindow(filtered, prev)
	delta := RoundTo2(total - prevTotal)

	// 4. Series + anomalies
	series := DailySeries(filtered, cur)
	anomalies := DetectAnomalies(series, params.AnomalyZThreshold, cfg.AnomalyOrder)

	// 5. Drivers
	drivers := RankDriversView(filtered, groupBy, cur, prev)
	top := TopDriver(drivers)

	// 6. Insights + report
	facts := InsightFacts{
		Current:   cur,
		Previous:  prev,
		TotalCost: total,
		PrevCost:  prevTotal,
		Delta:     delta,
		DeltaPct:  ratio(delta, prevTotal),
		Drivers:   drivers,
		Anomalies: anomalies,
		GroupBy:   groupBy,
	}
	insights := GenerateInsights(facts, cfg.InsightOptions...)

	kpis := KPIs{
		TotalCost:   total,
		PrevCost:    prevTotal,
		Delta:       delta,
		DeltaPct:    facts.DeltaPct,
		AnomalyDays: len(anomalies),
	}
	if top != nil {
		name, d := top.Name, top.Delta
		kpis.TopDriverName = &name
		kpis.TopDriverDelta = &d
	}

	mode := spec.Mode
	if mode == "" {
		mode = ModeRolling
	}

	log.Debug("dashboard: built model",
		zap.Float64("total", total),
		zap.Float64("delta", delta),
		zap.Int("drivers", len(drivers)),
		zap.Int("anomalies", len(anomalies)),
		zap.Int("insights", len(insights)))

	return &DashboardModel{
		Mode:      mode,
		GroupBy:   groupBy,
		Current:   cur,
		Previous:  prev,
		KPIs:      kpis,
		Series:    series,
		Drivers:   drivers,
		Anomalies: anomalies,
		Insights:  insights,
		Summary:   RenderSummaryReport(facts, insights),
	}, nil
}

// Facts rebuilds the insight inputs a model was rendered from.
func (m *DashboardModel) Facts() InsightFacts {
	return InsightFacts{
		Current:   m.Current,
		Previous:  m.Previous,
		TotalCost: m.KPIs.TotalCost,
		PrevCost:  m.KPIs.PrevCost,
		Delta:     m.KPIs.Delta,
		DeltaPct:  m.KPIs.DeltaPct,
		Drivers:   m.Drivers,
		Anomalies: m.Anomalies,
		GroupBy:   m.GroupBy,
	}
}
