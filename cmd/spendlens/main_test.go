package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/spendlens/engine"
)

var spikeArgs = []string{"--seed", "42", "--scenario", "spike", "--days", "60", "--end", "2026-01-19"}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "spendlens "+version+"\n", out)
}

func TestGenerateCSV(t *testing.T) {
	out, err := run(t, "generate", "--days", "2", "--end", "2026-01-19", "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+2*12*4*6)
	assert.Equal(t, "2026-01-18", records[1][0])
}

func TestGenerateJSONIsDeterministic(t *testing.T) {
	a, err := run(t, append([]string{"generate"}, spikeArgs...)...)
	require.NoError(t, err)
	b, err := run(t, append([]string{"generate"}, spikeArgs...)...)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var rows []engine.SpendRecord
	require.NoError(t, json.Unmarshal([]byte(a), &rows))
	assert.Len(t, rows, 60*12*4*6)
}

func TestDashboardJSON(t *testing.T) {
	args := append([]string{"dashboard", "--range", "14", "--group-by", "category"}, spikeArgs...)
	out, err := run(t, args...)
	require.NoError(t, err)

	var m engine.DashboardModel
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, engine.Window{Start: "2026-01-06", End: "2026-01-19"}, m.Current)
	require.NotNil(t, m.KPIs.TopDriverName)
	assert.Equal(t, "NAT Gateway", *m.KPIs.TopDriverName)
	assert.InDelta(t, 2830.43, *m.KPIs.TopDriverDelta, 0.05)
}

func TestDashboardTextIsReport(t *testing.T) {
	out, err := run(t, append([]string{"dashboard", "--format", "text"}, spikeArgs...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Cost & Usage Insights"))
}

func TestDriversFormats(t *testing.T) {
	out, err := run(t, append([]string{"drivers", "--group-by", "region", "--format", "csv"}, spikeArgs...)...)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Region", "Current", "Previous", "Delta", "Delta %"}, records[0])
	assert.Equal(t, "us-west-2", records[1][0])

	out, err = run(t, append([]string{"drivers", "--format", "text"}, spikeArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Drivers by Service")
	assert.Contains(t, out, "NAT Gateway")

	out, err = run(t, append([]string{"drivers", "--format", "yaml"}, spikeArgs...)...)
	require.NoError(t, err)
	var drivers []engine.DriverRow
	require.NoError(t, yaml.Unmarshal([]byte(out), &drivers))
	require.Len(t, drivers, 6)
	assert.Equal(t, "NAT Gateway", drivers[0].Name)
}

func TestReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	out, err := run(t, append([]string{"report", "--out", path}, spikeArgs...)...)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Recommended next step")
}

func TestAnomaliesFromFile(t *testing.T) {
	var b strings.Builder
	b.WriteString("date,client_id,region,aws_service,usage_usd\n")
	costs := []string{"10", "10", "10", "10", "60", "10", "10", "10", "10", "10"}
	for i, c := range costs {
		date := "2026-01-" + []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10"}[i]
		b.WriteString(date + ",C01,us-east-1,EC2," + c + "\n")
		b.WriteString(date + ",C02,us-east-1,S3,5\n")
	}
	path := filepath.Join(t.TempDir(), "usage.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	out, err := run(t, "anomalies", "--file", path, "--range", "10")
	require.NoError(t, err)
	var points []engine.AnomalyPoint
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 1)
	assert.Equal(t, "2026-01-05", points[0].Date)
	assert.Equal(t, engine.DirectionSpike, points[0].Direction)

	out, err = run(t, "anomalies", "--file", path, "--all-entities", "--format", "csv")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"entity", "date", "cost", "zScore", "direction"}, records[0])
	assert.Equal(t, []string{"C01", "2026-01-05", "60.00", "3.00", "spike"}, records[1])

	out, err = run(t, "anomalies", "--file", path, "--entity", "C02", "--history", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "No anomalies detected.\n", out)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", "--days", "3", "--end", "2026-01-19", "--format", "yaml")
	require.NoError(t, err)

	var cfg struct {
		Name     string `yaml:"name"`
		Records  int    `yaml:"records"`
		Universe struct {
			Categories []string `yaml:"categories"`
		} `yaml:"universe"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "synthetic/baseline", cfg.Name)
	assert.Equal(t, 3*12*4*6, cfg.Records)
	assert.Len(t, cfg.Universe.Categories, 6)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendlens.yaml")
	body := "data:\n  scenario: spike\n  end_date: \"2026-01-19\"\nanalysis:\n  group_by: region\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "drivers", "--config", path)
	require.NoError(t, err)
	var drivers []engine.DriverRow
	require.NoError(t, json.Unmarshal([]byte(out), &drivers))
	require.NotEmpty(t, drivers)
	assert.Equal(t, "us-west-2", drivers[0].Name)

	out, err = run(t, "drivers", "--config", path, "--group-by", "category")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &drivers))
	assert.Equal(t, "NAT Gateway", drivers[0].Name)
}

func TestErrors(t *testing.T) {
	tests := [][]string{
		{"dashboard", "--group-by", "planet"},
		{"dashboard", "--scenario", "meteor"},
		{"dashboard", "--format", "xml"},
		{"dashboard", "--current", "2026-01-08..2026-01-14"},
		{"dashboard", "--range", "-2"},
		{"dashboard", "--as-of", "2026-1-19"},
		{"anomalies", "--order", "loudest"},
		{"anomalies", "--history"},
		{"generate", "--file", "missing.parquet"},
		{"generate", "extra-arg"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := `{"querySpec":{"command":"drivers","groupBy":"region"},"interpretation":{"summary":"Regional drivers","confidence":0.8}}`
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{map[string]interface{}{
				"content": map[string]interface{}{"parts": []interface{}{map[string]string{"text": reply}}},
			}},
		})
	}))
	defer srv.Close()
	t.Setenv("SPENDLENS_TRANSLATOR_ENDPOINT", srv.URL)
	t.Setenv("SPENDLENS_TRANSLATOR_API_KEY", "test")

	out, err := run(t, append([]string{"ask", "which region grew?", "--format", "text"}, spikeArgs...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Regional drivers (confidence 80%)"))
	assert.Contains(t, out, "us-west-2")
}

func TestAskNeedsKey(t *testing.T) {
	t.Setenv("SPENDLENS_TRANSLATOR_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	_, err := run(t, "ask", "anything")
	assert.Error(t, err)
}
