package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// JSON FIXTURES
// ============================================================================
// Two shapes are accepted:
//
//	[{"date": ..., "entityId": ..., "category": ..., "cost": ...}, ...]
//
//	{"usage_daily_usd": [{"date": ..., "client_id": ..., "client_name": ...,
//	                      "aws_service": ..., "usage_usd": ...}, ...]}
//
// The second is the workshop fixture export. It carries no region.
// ============================================================================

type usageFixture struct {
	UsageDailyUSD []usageRow `json:"usage_daily_usd"`
}

type usageRow struct {
	Date       string  `json:"date"`
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	Region     string  `json:"region"`
	AWSService string  `json:"aws_service"`
	UsageUSD   float64 `json:"usage_usd"`
}

var usageAdapter = engine.NewDomainAdapter(func(r usageRow) engine.SpendRecord {
	return engine.SpendRecord{
		Date:        r.Date,
		EntityID:    r.ClientID,
		EntityLabel: r.ClientName,
		Region:      r.Region,
		Category:    r.AWSService,
		Cost:        r.UsageUSD,
	}
})

// ParseFixtureJSON decodes either fixture shape into SpendRecords. Records
// with an invalid date are dropped.
func ParseFixtureJSON(data []byte) ([]engine.SpendRecord, error) {
	rows, _, err := ParseFixtureJSONReport(data)
	return rows, err
}

// ParseFixtureJSONReport is ParseFixtureJSON plus a count of dropped rows.
func ParseFixtureJSONReport(data []byte) ([]engine.SpendRecord, *Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, errs.EmptyInput("parse fixture")
	}

	var view engine.RecordView
	switch trimmed[0] {
	case '[':
		var records []engine.SpendRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, nil, fmt.Errorf("decode record array: %w", err)
		}
		view = engine.NewSliceView(records)
	case '{':
		var fx usageFixture
		if err := json.Unmarshal(trimmed, &fx); err != nil {
			return nil, nil, fmt.Errorf("decode usage fixture: %w", err)
		}
		view = usageAdapter.Bind(fx.UsageDailyUSD)
	default:
		return nil, nil, errs.InvalidFormat(string(trimmed[:1]), "JSON array or object")
	}

	report := &Report{}
	out := make([]engine.SpendRecord, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if !dates.Valid(r.Date) {
			report.skip("invalid date")
			continue
		}
		if r.EntityID == "" {
			r.EntityID = r.EntityLabel
		}
		out = append(out, r)
	}
	report.Rows = len(out)
	return out, report, nil
}
