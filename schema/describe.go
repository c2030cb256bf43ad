package schema

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spektr-org/spendlens/engine"
)

// ============================================================================
// DESCRIBE — dataset summary from loaded records
// ============================================================================

// Describe summarizes rows: every distinct value per dimension (sorted),
// the date span, the record count and the total cost.
func Describe(name string, rows []engine.SpendRecord) Config {
	view := engine.NewSliceView(rows)

	cfg := Config{
		Name:      name,
		Records:   len(rows),
		TotalCost: engine.SumCost(view),
		Measures:  []MeasureMeta{DefaultMeasure("cost", "Cost")},
	}

	days := distinct(engine.RecordDates(view))
	if len(days) > 0 {
		cfg.DateRange = DateRange{Start: days[0], End: days[len(days)-1], Days: len(days)}
	}

	for _, dim := range engine.Dimensions {
		values := engine.UniqueValues(view, dim)
		sort.Strings(values)
		if values == nil {
			values = []string{}
		}
		cfg.Dimensions = append(cfg.Dimensions, DefaultDimension(string(dim), dim.Label(), values))
	}

	if len(rows) > 0 {
		cfg.Description = describeSpan(cfg)
	}
	return cfg
}

func describeSpan(cfg Config) string {
	parts := make([]string, 0, len(cfg.Dimensions))
	for _, d := range cfg.Dimensions {
		parts = append(parts, engine.FormatInt(d.Cardinality)+" "+strings.ToLower(d.DisplayName)+"s")
	}
	return engine.FormatInt(cfg.Records) + " records, " + strings.Join(parts, ", ") +
		", " + cfg.DateRange.Start + " → " + cfg.DateRange.End
}

// distinct returns the sorted unique values of items.
func distinct(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0)
	for _, v := range items {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

var titleCaser = cases.Title(language.English)

// toDisplayName cleans a header for human display.
// "usage_usd" → "Usage Usd", "Account Name" → "Account Name"
func toDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}
