package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// REPORT — markdown-like summary assembled from the same facts as insights
// ============================================================================

// RenderSummaryReport formats facts and insights as a multi-section report:
// a heading, the two windows, KPI bullets, key insights, anomalies and a
// recommended next step.
func RenderSummaryReport(facts InsightFacts, insights []Insight) string {
	var b strings.Builder

	b.WriteString("# Cost & Usage Insights\n\n")
	fmt.Fprintf(&b, "**Range:** %s\n", facts.Current)
	fmt.Fprintf(&b, "**Previous:** %s\n\n", facts.Previous)

	fmt.Fprintf(&b, "- **Total:** %s\n", FormatUSD(facts.TotalCost))
	fmt.Fprintf(&b, "- **Change:** %s (%s)\n", FormatSignedUSD(facts.Delta), FormatPct(facts.DeltaPct))
	top := facts.TopDriver()
	if top != nil {
		fmt.Fprintf(&b, "- **Top driver:** %s (%s / %s)\n", top.Name, FormatSignedUSD(top.Delta), FormatPct(top.DeltaPct))
	}

	b.WriteString("\n## Key insights\n")
	if len(insights) == 0 {
		b.WriteString("- No significant changes detected for the selected filters/range.\n")
	}
	for _, in := range insights {
		fmt.Fprintf(&b, "- **[%s]** %s %s\n", in.Priority, in.Text, in.Action)
	}

	b.WriteString("\n## Anomalies\n")
	if len(facts.Anomalies) == 0 {
		b.WriteString("- No statistically significant anomaly days detected in the selected range.\n")
	}
	for _, a := range facts.Anomalies {
		fmt.Fprintf(&b, "- **%s** (z=%.2f, %s): %s total cost that day.\n", a.Date, a.ZScore, a.Direction, FormatUSD(a.Cost))
	}

	b.WriteString("\n## Recommended next step\n")
	name := ""
	if top != nil && facts.GroupBy == DimensionCategory {
		name = top.Name
	}
	fmt.Fprintf(&b, "%s\n", capitalize(Recommendation(name)))

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
