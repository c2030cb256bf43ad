package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/helpers"
	"github.com/spektr-org/spendlens/schema"
)

var testSchema = schema.Describe("usage.csv", []engine.SpendRecord{
	{Date: "2026-01-01", EntityID: "C01", Region: "us-east-1", Category: "EC2", Cost: 10},
	{Date: "2026-01-02", EntityID: "C02", Region: "eu-west-1", Category: "NAT Gateway", Cost: 20},
})

// geminiStub replies with text as the single candidate and records the
// prompt it received.
func geminiStub(t *testing.T, status int, text string, prompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/test-model:generateContent"), r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if prompt != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*prompt = req.Contents[0].Parts[0].Text
		}

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
			return
		}
		resp := map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]string{"text": text}},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestTranslator(endpoint string) *GeminiTranslator {
	return NewGemini(Config{APIKey: "secret", Model: "test-model", Endpoint: endpoint}, nil)
}

func TestTranslate(t *testing.T) {
	reply := "```json\n" + `{"querySpec":{"command":"drivers","range":7,"groupBy":"service","region":"All","categories":["NAT Gateway"]},
"interpretation":{"summary":"NAT Gateway drivers over the last week","confidence":0.9}}` + "\n```"
	var prompt string
	srv := geminiStub(t, http.StatusOK, reply, &prompt)

	res, err := newTestTranslator(srv.URL).Translate(context.Background(), "what drove NAT costs last week?", testSchema)
	require.NoError(t, err)

	assert.Equal(t, QuerySpec{
		Command:    CommandDrivers,
		Range:      7,
		GroupBy:    "category",
		Categories: []string{"NAT Gateway"},
	}, res.QuerySpec)
	assert.Equal(t, 0.9, res.Interpretation.Confidence)

	assert.Contains(t, prompt, `"usage.csv"`)
	assert.Contains(t, prompt, "NAT Gateway")
	assert.Contains(t, prompt, "2026-01-01 to 2026-01-02")
	assert.Contains(t, prompt, "USER QUESTION: what drove NAT costs last week?")

	params, err := res.QuerySpec.Query().Params()
	require.NoError(t, err)
	assert.Equal(t, engine.DimensionCategory, params.GroupBy)
	assert.Equal(t, engine.Rolling(7, ""), params.Windows)
}

func TestTranslateFallback(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, "sorry, I cannot help", nil)

	res, err := newTestTranslator(srv.URL).Translate(context.Background(), "hello", testSchema)
	require.NoError(t, err)
	assert.Equal(t, CommandDashboard, res.QuerySpec.Command)
	assert.Equal(t, 0.5, res.Interpretation.Confidence)
}

func TestTranslateAPIError(t *testing.T) {
	srv := geminiStub(t, http.StatusForbidden, "", nil)

	_, err := newTestTranslator(srv.URL).Translate(context.Background(), "hello", testSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTranslateHonorsContext(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, "{}", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTranslator(srv.URL).Translate(ctx, "hello", testSchema)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalize(t *testing.T) {
	got := normalize(QuerySpec{Command: "forecast", GroupBy: "planet", Range: -3, Z: -1, Region: "all"})
	assert.Equal(t, QuerySpec{Command: CommandDashboard}, got)

	got = normalize(QuerySpec{Command: CommandAnomalies, GroupBy: "account"})
	assert.Equal(t, QuerySpec{Command: CommandAnomalies, GroupBy: "entity"}, got)
}

func TestQuerySpecQuery(t *testing.T) {
	s := QuerySpec{QTD: true, AsOf: "2026-02-15", Entities: []string{"C01"}, Z: 2}
	assert.Equal(t, helpers.Query{QTD: true, End: "2026-02-15", Entity: []string{"C01"}, Z: 2}, s.Query())
}

func TestNewGeminiDefaults(t *testing.T) {
	g := NewGemini(Config{APIKey: "k"}, nil)
	assert.Equal(t, DefaultModel, g.config.Model)
	assert.Equal(t, DefaultEndpoint, g.config.Endpoint)
}
