package synth

import (
	"strings"

	"github.com/spektr-org/spendlens/errs"
)

// Scenario selects which cost story is injected into the baseline data.
type Scenario string

const (
	// Baseline is seasonality and noise only.
	Baseline Scenario = "baseline"
	// Spike multiplies NAT Gateway in us-west-2 by 6 for three days
	// ending eight days before the end date.
	Spike Scenario = "spike"
	// RegionalExpansion ramps ap-southeast-1 linearly up to 2.8x.
	RegionalExpansion Scenario = "regional-expansion"
	// OptimizationWin cuts EC2 to 65% from 22 days before the end date.
	OptimizationWin Scenario = "optimization-win"
)

// Scenarios lists every scenario in display order.
var Scenarios = []Scenario{Baseline, Spike, RegionalExpansion, OptimizationWin}

// ParseScenario validates a scenario name. Empty means Baseline.
func ParseScenario(s string) (Scenario, error) {
	name := Scenario(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return Baseline, nil
	}
	for _, sc := range Scenarios {
		if sc == name {
			return sc, nil
		}
	}
	return "", errs.InvalidParameter("scenario", s, "want baseline, spike, regional-expansion or optimization-win")
}

func (s Scenario) String() string { return string(s) }
