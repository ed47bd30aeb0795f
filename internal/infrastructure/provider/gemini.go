package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/config"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel    = "gemini-1.5-flash"
)

// geminiClient talks to the Google Generative Language API.
type geminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func newGemini(cfg config.AIConfig, logger *slog.Logger) (*generator, error) {
	key, err := requireKey(geminiKeyEnv)
	if err != nil {
		return nil, err
	}

	client := &geminiClient{
		endpoint:   valueOr(cfg.Endpoint, defaultGeminiEndpoint),
		model:      valueOr(cfg.Model, defaultGeminiModel),
		apiKey:     key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	logger.Info("provider initialized", "provider", "gemini", "model", client.model)

	// Free-tier quotas are tight, so Gemini gets a longer attempt
	// budget with exponential backoff: 5s, 10s, 20s, 30s.
	return &generator{
		name: "gemini",
		call: client.call,
		policy: backoffPolicy{
			maxAttempts: 5,
			baseDelay:   5 * time.Second,
			capDelay:    30 * time.Second,
			exponential: true,
		},
		sleep:  time.Sleep,
		logger: logger,
	}, nil
}

func (c *geminiClient) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readFailure(resp)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &apiError{kind: FailureOther, msg: fmt.Sprintf("decode response: %v", err)}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &apiError{kind: FailureOther, msg: "response carried no candidates"}
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
