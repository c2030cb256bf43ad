package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/spendlens/config"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
)

func TestQueryParams(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want engine.DashboardParams
	}{
		{"rolling without end", Query{Range: 14}, engine.DashboardParams{Windows: engine.Rolling(14, "")}},
		{"rolling", Query{Range: 7, End: "2026-01-19"}, engine.DashboardParams{Windows: engine.Rolling(7, "2026-01-19")}},
		{"qtd", Query{QTD: true, End: "2026-02-15"}, engine.DashboardParams{Windows: engine.QuarterToDate("2026-02-15")}},
		{
			"explicit wins over qtd",
			Query{QTD: true, Current: "2026-01-08..2026-01-14", Previous: "2026-01-01..2026-01-07"},
			engine.DashboardParams{Windows: engine.Explicit(
				engine.Window{Start: "2026-01-08", End: "2026-01-14"},
				engine.Window{Start: "2026-01-01", End: "2026-01-07"},
			)},
		},
		{
			"grouping, filter and threshold",
			Query{Range: 14, GroupBy: "service", Region: "us-east-1", Category: []string{"EC2,S3", " Lambda "}, Entity: []string{"C01"}, Z: 2},
			engine.DashboardParams{
				Windows: engine.Rolling(14, ""),
				GroupBy: engine.DimensionCategory,
				Filter: &engine.Filter{
					Region:     "us-east-1",
					Categories: []string{"EC2", "S3", "Lambda"},
					EntityIDs:  []string{"C01"},
				},
				AnomalyZThreshold: 2,
			},
		},
		{"sentinel filter dropped", Query{Range: 14, Region: "All", Category: []string{"All"}}, engine.DashboardParams{Windows: engine.Rolling(14, "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.Params()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryParamsErrors(t *testing.T) {
	tests := []struct {
		name string
		q    Query
	}{
		{"half explicit", Query{Current: "2026-01-08..2026-01-14"}},
		{"bad window format", Query{Current: "2026-01-08", Previous: "2026-01-01..2026-01-07"}},
		{"inverted window", Query{Current: "2026-01-14..2026-01-08", Previous: "2026-01-01..2026-01-07"}},
		{"negative range", Query{Range: -1}},
		{"zero range", Query{}},
		{"unpadded end date", Query{Range: 7, End: "2026-1-19"}},
		{"unpadded window bound", Query{Current: "2026-01-01..2026-1-5", Previous: "2025-12-27..2025-12-31"}},
		{"bad group", Query{Range: 7, GroupBy: "planet"}},
		{"negative z", Query{Range: 7, Z: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.Params()
			require.Error(t, err)
			assert.True(t, errs.IsCallerError(err), "got %v", err)
		})
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow(" 2026-01-01 .. 2026-01-07 ")
	require.NoError(t, err)
	assert.Equal(t, engine.Window{Start: "2026-01-01", End: "2026-01-07"}, w)

	_, err = ParseWindow("2026-01-01/2026-01-07")
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestLoadDatasetSynthetic(t *testing.T) {
	ds, err := LoadDataset(config.DataConfig{Source: config.SourceSynthetic, Seed: 42, Scenario: "spike", Days: 2, EndDate: "2026-01-19"})
	require.NoError(t, err)
	assert.Equal(t, "synthetic/spike", ds.Name)
	assert.Nil(t, ds.Report)
	require.NotNil(t, ds.Universe)
	assert.Len(t, ds.Universe.Entities, 12)

	d := ds.Describe()
	assert.Equal(t, len(ds.Rows), d.Records)
	assert.Same(t, ds.Universe, d.Universe)
	assert.Len(t, ds.Rows, 2*12*4*6)
	assert.Equal(t, "2026-01-18", ds.Rows[0].Date)
}

func TestLoadDatasetErrors(t *testing.T) {
	_, err := LoadDataset(config.DataConfig{Source: config.SourceSynthetic, Scenario: "meteor"})
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = LoadDataset(config.DataConfig{Source: "s3"})
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = LoadDataset(config.DataConfig{Source: config.SourceFile, Path: "missing.csv"})
	assert.Error(t, err)
}

func TestQueryWithDefaults(t *testing.T) {
	a := config.AnalysisConfig{RangeDays: 14, GroupBy: "region", ZThreshold: 3}

	q := Query{}.WithDefaults(a)
	assert.Equal(t, 14, q.Range)
	assert.Equal(t, "region", q.GroupBy)
	assert.Equal(t, 3.0, q.Z)

	q = Query{Range: 7, GroupBy: "entity", Z: 1.5}.WithDefaults(a)
	assert.Equal(t, 7, q.Range)
	assert.Equal(t, "entity", q.GroupBy)
	assert.Equal(t, 1.5, q.Z)

	p, err := Query{}.WithDefaults(a).Params()
	require.NoError(t, err)
	assert.Equal(t, engine.Rolling(14, ""), p.Windows)
}
