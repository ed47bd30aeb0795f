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
	defaultChatGPTEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultChatGPTModel    = "gpt-4o-mini"
)

// chatGPTClient talks to OpenAI-compatible chat completion APIs.
type chatGPTClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func newChatGPT(cfg config.AIConfig, logger *slog.Logger) (*generator, error) {
	key, err := requireKey(openAIKeyEnv)
	if err != nil {
		return nil, err
	}

	client := &chatGPTClient{
		endpoint:   valueOr(cfg.Endpoint, defaultChatGPTEndpoint),
		model:      valueOr(cfg.Model, defaultChatGPTModel),
		apiKey:     key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	logger.Info("provider initialized", "provider", "chatgpt", "model", client.model)

	return &generator{
		name:   "chatgpt",
		call:   client.call,
		policy: backoffPolicy{maxAttempts: 3, baseDelay: 2 * time.Second},
		sleep:  time.Sleep,
		logger: logger,
	}, nil
}

func (c *chatGPTClient) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &apiError{kind: FailureOther, msg: fmt.Sprintf("decode response: %v", err)}
	}
	if len(out.Choices) == 0 {
		return "", &apiError{kind: FailureOther, msg: "response carried no choices"}
	}

	return out.Choices[0].Message.Content, nil
}
