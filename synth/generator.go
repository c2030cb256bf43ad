// Package synth generates deterministic synthetic spend data for demos,
// tests and the workshop scenarios.
package synth

import (
	"fmt"
	"math"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// UNIVERSE — fixed dimension values
// ============================================================================

// DefaultDays is the generated span when Params.Days is 0.
const DefaultDays = 60

// Entity is one synthetic account.
type Entity struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Universe lists every value the generator can emit, per dimension.
type Universe struct {
	Regions    []string `json:"regions" yaml:"regions"`
	Categories []string `json:"categories" yaml:"categories"`
	Entities   []Entity `json:"entities" yaml:"entities"`
}

var (
	regions    = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"}
	regionMult = map[string]float64{"us-east-1": 1.0, "us-west-2": 1.05, "eu-west-1": 0.95, "ap-southeast-1": 0.9}
	categories = []string{"EC2", "S3", "Lambda", "DynamoDB", "NAT Gateway", "CloudFront"}
)

var categoryBase = map[string]float64{
	"EC2":         35,
	"S3":          10,
	"Lambda":      6,
	"DynamoDB":    8,
	"NAT Gateway": 12,
	"CloudFront":  9,
}

const entityCount = 12

const (
	spikeCategory        = "NAT Gateway"
	spikeRegion          = "us-west-2"
	spikeFactor          = 6.0
	optimizationCategory = "EC2"
	optimizationFactor   = 0.65
	expansionRegion      = "ap-southeast-1"
	expansionGrowth      = 1.8
)

func entities() []Entity {
	out := make([]Entity, entityCount)
	for i := range out {
		n := fmt.Sprintf("%02d", i+1)
		out[i] = Entity{ID: "1111-2222-33" + n, Label: "Account " + n}
	}
	return out
}

// GetUniverse returns the fixed dimension values.
func GetUniverse() Universe {
	return Universe{
		Regions:    append([]string(nil), regions...),
		Categories: append([]string(nil), categories...),
		Entities:   entities(),
	}
}

// ============================================================================
// GENERATOR
// ============================================================================

// Params configures Generate.
type Params struct {
	Seed     uint32   `json:"seed" yaml:"seed"`
	Scenario Scenario `json:"scenario" yaml:"scenario"`
	Days     int      `json:"days" yaml:"days"`       // 0 → DefaultDays
	EndDate  string   `json:"endDate" yaml:"endDate"` // "" → today (UTC)
}

// Generate produces one record per day × entity × region × category,
// emitted in that nesting order. Identical params give identical output.
func Generate(p Params) ([]engine.SpendRecord, error) {
	days := p.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 0 {
		return nil, errs.InvalidParameter("days", p.Days, "must be > 0")
	}
	scenario := p.Scenario
	if scenario == "" {
		scenario = Baseline
	}
	if _, err := ParseScenario(string(scenario)); err != nil {
		return nil, err
	}
	end := p.EndDate
	if end == "" {
		end = dates.Today()
	}
	endTime, err := dates.Parse(end)
	if err != nil {
		return nil, err
	}
	shift := func(n int) string { return dates.Format(endTime.AddDate(0, 0, n)) }
	startTime := endTime.AddDate(0, 0, -(days - 1))

	rnd := NewRand(p.Seed)
	accounts := entities()
	entityMult := make([]float64, len(accounts))
	for i := range accounts {
		entityMult[i] = 0.7 + rnd.Float64()*0.9
	}

	spikeStart, spikeEnd := shift(-10), shift(-8)
	cutover := shift(-22)

	rows := make([]engine.SpendRecord, 0, days*len(accounts)*len(regions)*len(categories))
	for offset := 0; offset < days; offset++ {
		date := dates.Format(startTime.AddDate(0, 0, offset))
		seasonality := 1 + 0.08*math.Sin(2*math.Pi*float64(offset)/7)
		ramp := 1.0
		if days > 1 {
			ramp = 1 + float64(offset)/float64(days-1)*expansionGrowth
		}

		for ai, a := range accounts {
			for _, region := range regions {
				for _, category := range categories {
					noise := 0.85 + rnd.Float64()*0.3
					cost := categoryBase[category] * entityMult[ai] * regionMult[region] * seasonality * noise

					switch scenario {
					case Spike:
						if category == spikeCategory && region == spikeRegion && date >= spikeStart && date <= spikeEnd {
							cost *= spikeFactor
						}
					case OptimizationWin:
						if category == optimizationCategory && date >= cutover {
							cost *= optimizationFactor
						}
					case RegionalExpansion:
						if region == expansionRegion {
							cost *= ramp
						}
					}

					rows = append(rows, engine.SpendRecord{
						Date:        date,
						EntityID:    a.ID,
						EntityLabel: a.Label,
						Region:      region,
						Category:    category,
						Cost:        engine.RoundTo2(cost),
					})
				}
			}
		}
	}
	return rows, nil
}
