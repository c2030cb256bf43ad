package translator

import (
	"context"

	"github.com/spektr-org/spendlens/helpers"
	"github.com/spektr-org/spendlens/schema"
)

// ============================================================================
// TRANSLATOR — natural language question → analysis query
// ============================================================================
// The translator is the only component that calls an external service. It
// sees the dataset description (dimension values, date span), never rows.
// ============================================================================

// Translator turns a question into a QuerySpec.
type Translator interface {
	Translate(ctx context.Context, question string, sch schema.Config) (*TranslateResult, error)
}

// Command names the analysis a QuerySpec asks for.
type Command string

const (
	CommandDashboard Command = "dashboard"
	CommandDrivers   Command = "drivers"
	CommandAnomalies Command = "anomalies"
	CommandReport    Command = "report"
)

// QuerySpec is the JSON shape the model is asked to produce.
type QuerySpec struct {
	Command    Command  `json:"command" yaml:"command"`
	Range      int      `json:"range,omitempty" yaml:"range,omitempty"`
	QTD        bool     `json:"qtd,omitempty" yaml:"qtd,omitempty"`
	AsOf       string   `json:"asOf,omitempty" yaml:"asOf,omitempty"`
	Current    string   `json:"current,omitempty" yaml:"current,omitempty"`
	Previous   string   `json:"previous,omitempty" yaml:"previous,omitempty"`
	GroupBy    string   `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	Region     string   `json:"region,omitempty" yaml:"region,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Entities   []string `json:"entities,omitempty" yaml:"entities,omitempty"`
	Z          float64  `json:"z,omitempty" yaml:"z,omitempty"`
}

// Query converts s to the shared CLI/HTTP query form.
func (s QuerySpec) Query() helpers.Query {
	return helpers.Query{
		Range:    s.Range,
		QTD:      s.QTD,
		End:      s.AsOf,
		Current:  s.Current,
		Previous: s.Previous,
		GroupBy:  s.GroupBy,
		Region:   s.Region,
		Category: s.Categories,
		Entity:   s.Entities,
		Z:        s.Z,
	}
}

// Interpretation is the model's plain-language reading of the question,
// shown to the user before results.
type Interpretation struct {
	Summary    string  `json:"summary" yaml:"summary"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// TranslateResult pairs a QuerySpec with its interpretation.
type TranslateResult struct {
	QuerySpec      QuerySpec      `json:"querySpec" yaml:"querySpec"`
	Interpretation Interpretation `json:"interpretation" yaml:"interpretation"`
}

// Config holds translator configuration.
type Config struct {
	APIKey   string // provider API key
	Model    string // e.g. "gemini-2.5-flash-lite"
	Endpoint string // empty = public Gemini endpoint
}

// Defaults for Config.
const (
	DefaultModel    = "gemini-2.5-flash-lite"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
)
