package helpers

import (
	"strings"

	"github.com/spektr-org/spendlens/config"
	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// QUERY — string inputs (CLI flags, URL params) → DashboardParams
// ============================================================================

// Query is the flat, string-typed form of engine.DashboardParams shared by
// the CLI and the HTTP API.
type Query struct {
	Range    int     // rolling days; must be > 0 in rolling mode
	QTD      bool    // quarter-to-date mode
	End      string  // rolling end or QTD as-of date
	Current  string  // explicit current window "start..end"
	Previous string  // explicit previous window "start..end"
	GroupBy  string  // category, region, entity or a synonym
	Region   string  // single region or "All"
	Category []string
	Entity   []string
	Z        float64 // anomaly threshold; 0 keeps the default
}

// Params validates q and converts it.
func (q Query) Params() (engine.DashboardParams, error) {
	var p engine.DashboardParams

	if q.End != "" {
		if _, err := dates.Parse(q.End); err != nil {
			return p, err
		}
	}

	switch {
	case q.Current != "" || q.Previous != "":
		if q.Current == "" || q.Previous == "" {
			return p, errs.InvalidParameter("windows", q.Current+"|"+q.Previous, "explicit mode needs both current and previous")
		}
		cur, err := ParseWindow(q.Current)
		if err != nil {
			return p, err
		}
		prev, err := ParseWindow(q.Previous)
		if err != nil {
			return p, err
		}
		p.Windows = engine.Explicit(cur, prev)
	case q.QTD:
		p.Windows = engine.QuarterToDate(q.End)
	default:
		if q.Range <= 0 {
			return p, errs.InvalidParameter("range", q.Range, "must be > 0")
		}
		p.Windows = engine.Rolling(q.Range, q.End)
	}

	if q.GroupBy != "" {
		dim, err := engine.ParseDimension(q.GroupBy)
		if err != nil {
			return p, err
		}
		p.GroupBy = dim
	}

	if q.Z < 0 {
		return p, errs.InvalidParameter("z", q.Z, "must not be negative")
	}
	p.AnomalyZThreshold = q.Z

	f := &engine.Filter{
		Region:     q.Region,
		Categories: splitList(q.Category),
		EntityIDs:  splitList(q.Entity),
	}
	if !f.IsEmpty() {
		p.Filter = f
	}
	return p, nil
}

// ParseWindow reads "YYYY-MM-DD..YYYY-MM-DD".
func ParseWindow(s string) (engine.Window, error) {
	start, end, ok := strings.Cut(s, "..")
	if !ok {
		return engine.Window{}, errs.InvalidFormat(s, "start..end")
	}
	w := engine.Window{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if err := w.Validate(); err != nil {
		return engine.Window{}, err
	}
	return w, nil
}

// splitList flattens repeated and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// WithDefaults fills range, grouping and threshold from the analysis config
// when q leaves them unset.
func (q Query) WithDefaults(a config.AnalysisConfig) Query {
	if q.Range == 0 {
		q.Range = a.RangeDays
	}
	if q.GroupBy == "" {
		q.GroupBy = a.GroupBy
	}
	if q.Z == 0 {
		q.Z = a.ZThreshold
	}
	return q
}
