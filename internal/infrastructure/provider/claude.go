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
	defaultClaudeEndpoint = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel    = "claude-sonnet-4-20250514"
	anthropicVersion      = "2023-06-01"
)

// claudeClient talks to the Anthropic Messages API.
type claudeClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func newClaude(cfg config.AIConfig, logger *slog.Logger) (*generator, error) {
	key, err := requireKey(anthropicKeyEnv)
	if err != nil {
		return nil, err
	}

	client := &claudeClient{
		endpoint:   valueOr(cfg.Endpoint, defaultClaudeEndpoint),
		model:      valueOr(cfg.Model, defaultClaudeModel),
		apiKey:     key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	logger.Info("provider initialized", "provider", "claude", "model", client.model)

	return &generator{
		name:   "claude",
		call:   client.call,
		policy: backoffPolicy{maxAttempts: 3, baseDelay: 2 * time.Second},
		sleep:  time.Sleep,
		logger: logger,
	}, nil
}

func (c *claudeClient) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
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
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &apiError{kind: FailureOther, msg: fmt.Sprintf("decode response: %v", err)}
	}
	if len(out.Content) == 0 {
		return "", &apiError{kind: FailureOther, msg: "response carried no content blocks"}
	}

	return out.Content[0].Text, nil
}
