package translator

import (
	"fmt"
	"strings"

	"github.com/spektr-org/spendlens/schema"
)

// ============================================================================
// PROMPT BUILDER — dataset-driven system prompt
// ============================================================================
// Only metadata goes out: dimension values, date span and totals from
// schema.Describe. A few hundred bytes per question.
// ============================================================================

// BuildPrompt renders the system prompt for sch.
func BuildPrompt(sch schema.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a query translator for "%s", a cloud cost analytics tool.

YOUR ROLE:
Translate the user's question into a QuerySpec that a local engine will execute.
Do not compute any values.

`, sch.Name)

	b.WriteString("DATA:\n")
	fmt.Fprintf(&b, "- %d daily cost records from %s to %s\n", sch.Records, sch.DateRange.Start, sch.DateRange.End)
	for _, d := range sch.Dimensions {
		fmt.Fprintf(&b, "- %s (%s): %s\n", d.Key, d.DisplayName, sampleValues(d.Values, 20))
	}
	b.WriteString("\n")

	b.WriteString(`QUERYSPEC FIELDS:
- command: one of "dashboard", "drivers", "anomalies", "report"
- range: rolling window length in days (e.g. "last week" = 7); omit for the default
- qtd: true for quarter-to-date comparisons
- asOf: end date YYYY-MM-DD for rolling or qtd; omit for the latest date
- current, previous: explicit windows "YYYY-MM-DD..YYYY-MM-DD" (both or neither)
- groupBy: "category", "region" or "entity"
- region: a single region value
- categories: list of category values
- entities: list of entity IDs
- z: anomaly threshold; omit for the default

RULES:
1. Use only values listed under DATA. Never invent regions, categories or entities.
2. "what drove", "why did costs change" → command "drivers".
3. "spikes", "unusual days", "outliers" → command "anomalies".
4. "summary", "write up", "report" → command "report".
5. Otherwise use "dashboard".

RESPONSE FORMAT:
{"querySpec": {...}, "interpretation": {"summary": "one sentence", "confidence": 0.0-1.0}}
`)
	return b.String()
}

func sampleValues(values []string, max int) string {
	if len(values) <= max {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:max], ", ") + fmt.Sprintf(", ... (%d more)", len(values)-max)
}
