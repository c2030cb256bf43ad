package translator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spektr-org/spendlens/engine"
)

// parseResponse extracts a TranslateResult from the model's JSON reply.
func parseResponse(response string) (*TranslateResult, error) {
	response = stripFences(response)

	var result TranslateResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to parse translator response: %w (response: %.200s)", err, response)
	}
	result.QuerySpec = normalize(result.QuerySpec)
	return &result, nil
}

// normalize fills defaults and drops values the engine would reject.
func normalize(s QuerySpec) QuerySpec {
	switch s.Command {
	case CommandDashboard, CommandDrivers, CommandAnomalies, CommandReport:
	default:
		s.Command = CommandDashboard
	}
	if s.GroupBy != "" {
		if dim, err := engine.ParseDimension(s.GroupBy); err == nil {
			s.GroupBy = string(dim)
		} else {
			s.GroupBy = ""
		}
	}
	if s.Range < 0 {
		s.Range = 0
	}
	if s.Z < 0 {
		s.Z = 0
	}
	if engine.IsAll(s.Region) {
		s.Region = ""
	}
	return s
}

// fallbackResult is used when the reply cannot be parsed: the default
// dashboard with a low-confidence interpretation.
func fallbackResult(response string) *TranslateResult {
	interp := Interpretation{
		Summary:    "Showing the default dashboard for your question",
		Confidence: 0.5,
	}
	var wrapper struct {
		Interpretation Interpretation `json:"interpretation"`
	}
	if err := json.Unmarshal([]byte(stripFences(response)), &wrapper); err == nil && wrapper.Interpretation.Summary != "" {
		interp = wrapper.Interpretation
	}
	return &TranslateResult{
		QuerySpec:      QuerySpec{Command: CommandDashboard},
		Interpretation: interp,
	}
}

// stripFences removes markdown code fences around a JSON reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
