package engine

import (
	"strings"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// SPENDLENS ENGINE TYPES — Cost & Usage Analytics
// ============================================================================
// Every type here is a value. Nothing is shared or mutated after it is
// built; a DashboardModel lives exactly as long as the call that made it.
// ============================================================================

// ============================================================================
// RECORD — one day of spend for one entity/region/category
// ============================================================================

// SpendRecord is the unit of all aggregation.
type SpendRecord struct {
	Date        string  `json:"date" yaml:"date"` // YYYY-MM-DD
	EntityID    string  `json:"entityId" yaml:"entityId"`
	EntityLabel string  `json:"entityLabel" yaml:"entityLabel"`
	Region      string  `json:"region" yaml:"region"`
	Category    string  `json:"category" yaml:"category"`
	Cost        float64 `json:"cost" yaml:"cost"` // USD
}

// ============================================================================
// DIMENSIONS
// ============================================================================

// Dimension names a grouping key over SpendRecords.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionRegion   Dimension = "region"
	DimensionEntity   Dimension = "entity"
)

// Dimensions lists the supported grouping dimensions in display order.
var Dimensions = []Dimension{DimensionCategory, DimensionRegion, DimensionEntity}

// ParseDimension accepts the canonical names plus the synonyms used by the
// workshop datasets ("service", "account", "client").
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "service", "aws_service":
		return DimensionCategory, nil
	case "region":
		return DimensionRegion, nil
	case "entity", "account", "client":
		return DimensionEntity, nil
	default:
		return "", errs.InvalidParameter("groupBy", s, "want category, region or entity")
	}
}

// Key returns the grouping key of r for dimension d. Entities are keyed by
// "<label> (<id>)" so two entities sharing a label stay distinct.
func (d Dimension) Key(r SpendRecord) string {
	switch d {
	case DimensionRegion:
		return r.Region
	case DimensionEntity:
		if r.EntityLabel == "" {
			return r.EntityID
		}
		return r.EntityLabel + " (" + r.EntityID + ")"
	default:
		return r.Category
	}
}

// Label is the human-readable column title for d.
func (d Dimension) Label() string {
	switch d {
	case DimensionRegion:
		return "Region"
	case DimensionEntity:
		return "Account"
	default:
		return "Service"
	}
}

// ============================================================================
// WINDOWS
// ============================================================================

// Window is an inclusive date range. Start ≤ End.
type Window struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Contains reports whether date falls inside w. Relies on ISO ordering.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// Days returns the inclusive length of w.
func (w Window) Days() int {
	n, err := dates.DaysBetweenInclusive(w.Start, w.End)
	if err != nil {
		return 0
	}
	return n
}

// Validate checks that both bounds parse and Start ≤ End.
func (w Window) Validate() error {
	if _, err := dates.Parse(w.Start); err != nil {
		return err
	}
	if _, err := dates.Parse(w.End); err != nil {
		return err
	}
	if w.Start > w.End {
		return errs.InvalidParameter("window", w.Start+".."+w.End, "start after end")
	}
	return nil
}

func (w Window) String() string {
	return w.Start + " → " + w.End
}

// WindowPair is a current/previous comparison.
type WindowPair struct {
	Current  Window `json:"current" yaml:"current"`
	Previous Window `json:"previous" yaml:"previous"`
}

// ============================================================================
// DRIVERS, SERIES, ANOMALIES
// ============================================================================

// DriverRow is one group's change between the previous and current window.
// DeltaPct is nil exactly when Previous is 0.
type DriverRow struct {
	Name     string   `json:"name" yaml:"name"`
	Current  float64  `json:"current" yaml:"current"`
	Previous float64  `json:"previous" yaml:"previous"`
	Delta    float64  `json:"delta" yaml:"delta"`
	DeltaPct *float64 `json:"deltaPct" yaml:"deltaPct"`
}

// SeriesPoint is one calendar day's total. Days with no rows are absent.
type SeriesPoint struct {
	Date string  `json:"date" yaml:"date"`
	Cost float64 `json:"cost" yaml:"cost"`
}

// Direction tags an anomaly as above or below the mean.
type Direction string

const (
	DirectionSpike Direction = "spike"
	DirectionDip   Direction = "dip"
)

// AnomalyPoint is a SeriesPoint flagged as statistically extreme.
type AnomalyPoint struct {
	Date      string    `json:"date" yaml:"date"`
	Cost      float64   `json:"cost" yaml:"cost"`
	ZScore    float64   `json:"zScore" yaml:"zScore"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// ============================================================================
// INSIGHTS
// ============================================================================

// InsightType classifies a generated insight.
type InsightType string

const (
	InsightAnomalySpike     InsightType = "anomaly_spike"
	InsightAnomalyDip       InsightType = "anomaly_dip"
	InsightTopDriverGrowth  InsightType = "top_driver_growth"
	InsightTopDriverDecline InsightType = "top_driver_decline"
	InsightSummary          InsightType = "summary"
)

// Priority orders insights for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is one prioritized narrative statement plus a suggested action.
type Insight struct {
	Type     InsightType `json:"type" yaml:"type"`
	Priority Priority    `json:"priority" yaml:"priority"`
	Text     string      `json:"text" yaml:"text"`
	Action   string      `json:"action" yaml:"action"`
}

// ============================================================================
// DASHBOARD MODEL
// ============================================================================

// KPIs summarizes the comparison.
type KPIs struct {
	TotalCost      float64  `json:"totalCost" yaml:"totalCost"`
	PrevCost       float64  `json:"prevCost" yaml:"prevCost"`
	Delta          float64  `json:"delta" yaml:"delta"`
	DeltaPct       *float64 `json:"deltaPct" yaml:"deltaPct"`
	AnomalyDays    int      `json:"anomalyDays" yaml:"anomalyDays"`
	TopDriverName  *string  `json:"topDriverName" yaml:"topDriverName"`
	TopDriverDelta *float64 `json:"topDriverDelta" yaml:"topDriverDelta"`
}

// DashboardModel is the full result of one BuildDashboardModel call.
type DashboardModel struct {
	Mode      WindowMode     `json:"mode" yaml:"mode"`
	GroupBy   Dimension      `json:"groupBy" yaml:"groupBy"`
	Current   Window         `json:"current" yaml:"current"`
	Previous  Window         `json:"previous" yaml:"previous"`
	KPIs      KPIs           `json:"kpis" yaml:"kpis"`
	Series    []SeriesPoint  `json:"series" yaml:"series"`
	Drivers   []DriverRow    `json:"drivers" yaml:"drivers"`
	Anomalies []AnomalyPoint `json:"anomalies" yaml:"anomalies"`
	Insights  []Insight      `json:"insights" yaml:"insights"`
	Summary   string         `json:"summaryMarkdown" yaml:"summaryMarkdown"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Kind  string       `json:"kind,omitempty"` // "line", "scatter"
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
