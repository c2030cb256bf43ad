package helpers

import (
	"github.com/spektr-org/spendlens/config"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
	"github.com/spektr-org/spendlens/schema"
	"github.com/spektr-org/spendlens/synth"
)

// Dataset is a loaded set of records plus where they came from.
type Dataset struct {
	Name     string
	Rows     []engine.SpendRecord
	Report   *Report         // nil for synthetic data
	Universe *synth.Universe // generator value sets; nil for file data
}

// Description is schema.Describe plus the full synthetic value sets, which
// can be wider than what the loaded rows contain.
type Description struct {
	schema.Config `yaml:",inline"`
	Universe      *synth.Universe `json:"universe,omitempty" yaml:"universe,omitempty"`
}

// Describe summarizes the dataset.
func (d *Dataset) Describe() Description {
	return Description{Config: schema.Describe(d.Name, d.Rows), Universe: d.Universe}
}

// LoadDataset produces records from the configured source.
func LoadDataset(cfg config.DataConfig) (*Dataset, error) {
	switch cfg.Source {
	case config.SourceFile:
		rows, report, err := LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Dataset{Name: cfg.Path, Rows: rows, Report: report}, nil
	case config.SourceSynthetic, "":
		scenario, err := synth.ParseScenario(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		rows, err := synth.Generate(synth.Params{
			Seed:     cfg.Seed,
			Scenario: scenario,
			Days:     cfg.Days,
			EndDate:  cfg.EndDate,
		})
		if err != nil {
			return nil, err
		}
		u := synth.GetUniverse()
		return &Dataset{Name: "synthetic/" + scenario.String(), Rows: rows, Universe: &u}, nil
	default:
		return nil, errs.InvalidParameter("source", cfg.Source, "want synthetic or file")
	}
}
