package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/spendlens/schema"
)

// ============================================================================
// GEMINI TRANSLATOR — calls Google Gemini for question → QuerySpec
// ============================================================================

// GeminiTranslator implements Translator using the Gemini API.
type GeminiTranslator struct {
	config Config
	client *http.Client
	log    *zap.Logger
}

// NewGemini creates a Gemini translator. A nil log disables logging.
func NewGemini(cfg Config, log *zap.Logger) *GeminiTranslator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiTranslator{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Translate asks the model for a QuerySpec. An unparsable reply yields the
// default dashboard rather than an error; transport failures are errors.
func (g *GeminiTranslator) Translate(ctx context.Context, question string, sch schema.Config) (*TranslateResult, error) {
	prompt := BuildPrompt(sch) + "\n\nUSER QUESTION: " + question + "\n\nRespond with valid JSON only:"

	g.log.Debug("translator: request",
		zap.String("question", truncate(question, 80)),
		zap.String("dataset", sch.Name),
		zap.String("model", g.config.Model))

	response, err := g.callGemini(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	result, err := parseResponse(response)
	if err != nil {
		g.log.Warn("translator: parse failed, using fallback", zap.Error(err))
		return fallbackResult(response), nil
	}

	g.log.Debug("translator: translated",
		zap.String("command", string(result.QuerySpec.Command)),
		zap.Float64("confidence", result.Interpretation.Confidence))
	return result, nil
}

// ============================================================================
// GEMINI API CALL
// ============================================================================

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// callGemini sends a prompt and returns the first candidate's text.
func (g *GeminiTranslator) callGemini(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	jsonBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("Gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned empty response")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
