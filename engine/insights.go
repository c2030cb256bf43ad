package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// INSIGHTS — prioritized narrative statements from aggregate facts
// ============================================================================
// Order of emission:
//   1. one high-priority insight per anomaly
//   2. the top driver (medium) when its |delta| clears the driver floor
//   3. the runner-up driver (low) when its |delta| clears the secondary floor
//   4. an overall-trend summary (low) when nothing else fired and the
//      total delta clears the summary floor
// ============================================================================

// InsightFacts is everything the insight and report generators read.
type InsightFacts struct {
	Current   Window         `json:"current"`
	Previous  Window         `json:"previous"`
	TotalCost float64        `json:"totalCost"`
	PrevCost  float64        `json:"prevCost"`
	Delta     float64        `json:"delta"`
	DeltaPct  *float64       `json:"deltaPct"`
	Drivers   []DriverRow    `json:"drivers"`
	Anomalies []AnomalyPoint `json:"anomalies"`
	GroupBy   Dimension      `json:"groupBy"`
}

// TopDriver returns the first ranked driver of the facts, or nil.
func (f InsightFacts) TopDriver() *DriverRow {
	return TopDriver(f.Drivers)
}

// Default significance floors, in dollars of absolute delta.
const (
	DefaultDriverFloor    = 100.0
	DefaultSecondaryFloor = 1000.0
	DefaultSummaryFloor   = 1000.0
)

// InsightOption overrides a significance floor.
type InsightOption func(*insightConfig)

type insightConfig struct {
	driverFloor    float64
	secondaryFloor float64
	summaryFloor   float64
}

// WithDriverFloor sets the minimum |delta| for the top-driver insight.
func WithDriverFloor(v float64) InsightOption {
	return func(c *insightConfig) { c.driverFloor = v }
}

// WithSecondaryFloor sets the minimum |delta| for the runner-up insight.
func WithSecondaryFloor(v float64) InsightOption {
	return func(c *insightConfig) { c.secondaryFloor = v }
}

// WithSummaryFloor sets the minimum |total delta| for the fallback summary.
func WithSummaryFloor(v float64) InsightOption {
	return func(c *insightConfig) { c.summaryFloor = v }
}

func applyInsightOptions(opts []InsightOption) insightConfig {
	c := insightConfig{
		driverFloor:    DefaultDriverFloor,
		secondaryFloor: DefaultSecondaryFloor,
		summaryFloor:   DefaultSummaryFloor,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Action texts.
const (
	actionSpike           = "Reach out to confirm launch/scale event; offer cost guardrails and optimization review."
	actionDip             = "Investigate potential adoption risk, service incident, or account changes; propose enablement support."
	actionGrowth          = "Confirm workload expansion is expected; discuss commitment discounts (Savings Plans/RIs) if sustained growth."
	actionDecline         = "Investigate adoption risk, workload migration, or optimization efforts; ensure customer satisfaction."
	actionSecondGrowth    = "Monitor for continued growth; propose cost optimization engagement."
	actionSecondDecline   = "Follow up on usage reduction; assess if customer needs support."
	actionSummary         = "Review account activity and discuss trends with customer."
	defaultRecommendation = "validate the top driver with usage metrics and change history, then identify quick wins (tag hygiene, right-sizing, guardrails)."
)

var recommendations = map[string]string{
	"NAT Gateway": "review NAT Gateway traffic patterns, evaluate VPC endpoints where appropriate, and validate routing/NAT architecture.",
	"EC2":         "review instance sizing and schedules, confirm autoscaling policies, and look for idle/over-provisioned capacity.",
	"S3":          "review storage class distribution, lifecycle policies, and large-prefix access patterns driving request costs.",
	"CloudFront":  "review cache hit ratio, origin configuration, and any sudden traffic changes impacting egress.",
	"Lambda":      "review invocation spikes, timeouts/retries, and high-duration functions that may benefit from optimization.",
	"DynamoDB":    "review read/write capacity mode, hot partitions, and traffic changes; validate autoscaling settings.",
}

// Recommendation returns the next-step advice for a category. Unknown
// categories get a generic recommendation.
func Recommendation(category string) string {
	if r, ok := recommendations[category]; ok {
		return r
	}
	return defaultRecommendation
}

// GenerateInsights turns facts into an ordered list of insights. The result
// is never nil.
func GenerateInsights(facts InsightFacts, opts ...InsightOption) []Insight {
	cfg := applyInsightOptions(opts)
	insights := []Insight{}

	for _, a := range facts.Anomalies {
		insights = append(insights, anomalyInsight(a))
	}

	if len(facts.Drivers) > 0 {
		top := facts.Drivers[0]
		if math.Abs(top.Delta) >= cfg.driverFloor {
			insights = append(insights, topDriverInsight(top, facts.GroupBy))
		}
	}

	if len(facts.Drivers) > 1 {
		second := facts.Drivers[1]
		if math.Abs(second.Delta) >= cfg.secondaryFloor {
			insights = append(insights, secondDriverInsight(second))
		}
	}

	if len(insights) == 0 && math.Abs(facts.Delta) >= cfg.summaryFloor {
		direction := "increased"
		if facts.Delta < 0 {
			direction = "decreased"
		}
		insights = append(insights, Insight{
			Type:     InsightSummary,
			Priority: PriorityLow,
			Text: fmt.Sprintf("Overall spending has %s by %s vs the previous period (%s).",
				direction, formatDelta(facts.Delta), FormatPct(facts.DeltaPct)),
			Action: actionSummary,
		})
	}

	return insights
}

// formatDelta prefixes gains with "+" and prints losses unsigned, since the
// surrounding text already says "decrease" or "decreased".
func formatDelta(d float64) string {
	if d >= 0 {
		return "+" + FormatUSD(d)
	}
	return FormatUSD(math.Abs(d))
}

func anomalyInsight(a AnomalyPoint) Insight {
	if a.Direction == DirectionSpike {
		return Insight{
			Type:     InsightAnomalySpike,
			Priority: PriorityHigh,
			Text: fmt.Sprintf("Spending spike detected on %s with %s daily total (%.1fσ above normal).",
				a.Date, FormatUSD(a.Cost), math.Abs(a.ZScore)),
			Action: actionSpike,
		}
	}
	return Insight{
		Type:     InsightAnomalyDip,
		Priority: PriorityHigh,
		Text: fmt.Sprintf("Spending dip detected on %s with %s daily total (%.1fσ below normal).",
			a.Date, FormatUSD(a.Cost), math.Abs(a.ZScore)),
		Action: actionDip,
	}
}

func topDriverInsight(d DriverRow, groupBy Dimension) Insight {
	growth := d.Delta > 0
	in := Insight{Priority: PriorityMedium}
	if growth {
		in.Type = InsightTopDriverGrowth
		in.Text = fmt.Sprintf("%s is the top growth driver with %s increase (%s → %s).",
			d.Name, formatDelta(d.Delta), FormatUSD(d.Previous), FormatUSD(d.Current))
		in.Action = actionGrowth
	} else {
		in.Type = InsightTopDriverDecline
		in.Text = fmt.Sprintf("%s is the top declining driver with %s decrease (%s → %s).",
			d.Name, formatDelta(d.Delta), FormatUSD(d.Previous), FormatUSD(d.Current))
		in.Action = actionDecline
	}
	if groupBy == DimensionCategory {
		in.Action = "Next step: " + Recommendation(d.Name)
	}
	return in
}

func secondDriverInsight(d DriverRow) Insight {
	in := Insight{
		Priority: PriorityLow,
		Text: fmt.Sprintf("%s also shows significant change: %s (%s → %s).",
			d.Name, formatDelta(d.Delta), FormatUSD(d.Previous), FormatUSD(d.Current)),
	}
	if d.Delta > 0 {
		in.Type = InsightTopDriverGrowth
		in.Action = actionSecondGrowth
	} else {
		in.Type = InsightTopDriverDecline
		in.Action = actionSecondDecline
	}
	return in
}
