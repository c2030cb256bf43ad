package schema

// ============================================================================
// SCHEMA — Describes the shape of a spend dataset
// ============================================================================
// Built from loaded records by Describe. Drives filter dropdowns in the CLI
// and the HTTP API, and tells callers which date span is available.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Records   int       `json:"records" yaml:"records"`
	TotalCost float64   `json:"totalCost" yaml:"totalCost"`
	DateRange DateRange `json:"dateRange" yaml:"dateRange"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`
}

// DateRange is the inclusive span of dates present in a dataset.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	Days  int    `json:"days" yaml:"days"` // distinct dates with data
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key" yaml:"key"`
	DisplayName     string   `json:"displayName" yaml:"displayName"`
	Values          []string `json:"values" yaml:"values"` // sorted, complete
	Cardinality     int      `json:"cardinality" yaml:"cardinality"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
	Groupable       bool     `json:"groupable" yaml:"groupable"`
	Filterable      bool     `json:"filterable" yaml:"filterable"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key          string   `json:"key" yaml:"key"`
	DisplayName  string   `json:"displayName" yaml:"displayName"`
	Unit         string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	IsCurrency   bool     `json:"isCurrency,omitempty" yaml:"isCurrency,omitempty"`
	Aggregations []string `json:"aggregations,omitempty" yaml:"aggregations,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, values []string) DimensionMeta {
	return DimensionMeta{
		Key:             key,
		DisplayName:     displayName,
		Values:          values,
		Cardinality:     len(values),
		CardinalityHint: cardinalityHint(len(values)),
		Groupable:       true,
		Filterable:      true,
	}
}

// DefaultMeasure creates the cost measure.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:          key,
		DisplayName:  displayName,
		Unit:         "USD",
		IsCurrency:   true,
		Aggregations: []string{"sum"},
	}
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

func cardinalityHint(n int) string {
	switch {
	case n <= 10:
		return "low"
	case n <= 50:
		return "medium"
	default:
		return "high"
	}
}
