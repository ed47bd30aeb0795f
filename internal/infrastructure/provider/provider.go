package provider

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/ports"
)

const (
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
	openAIKeyEnv    = "OPENAI_API_KEY"
	geminiKeyEnv    = "GEMINI_API_KEY"
)

// FailureKind classifies a failed generation call at the adapter
// boundary. The retry loop branches on the kind, never on message text.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailureRateLimited
	FailureNotFound
	FailureTransport
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimited:
		return "rate_limited"
	case FailureNotFound:
		return "not_found"
	case FailureTransport:
		return "transport"
	default:
		return "other"
	}
}

// apiError carries the classified failure of one backend call.
type apiError struct {
	kind FailureKind
	msg  string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func classifyStatus(status int) FailureKind {
	switch status {
	case http.StatusTooManyRequests:
		return FailureRateLimited
	case http.StatusNotFound:
		return FailureNotFound
	default:
		return FailureOther
	}
}

// readFailure drains a bounded snippet of the error body and wraps the
// response status into a classified failure.
func readFailure(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &apiError{
		kind: classifyStatus(resp.StatusCode),
		msg:  fmt.Sprintf("%s %s", resp.Status, strings.TrimSpace(string(snippet))),
	}
}

func transportFailure(err error) error {
	return &apiError{kind: FailureTransport, msg: err.Error()}
}

// New resolves the configured backend name to an adapter. An unknown
// name or a missing credential is a configuration error, raised here so
// the run aborts before any article is processed.
func New(cfg config.AIConfig, logger *slog.Logger) (ports.TextGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch normalizeName(cfg.Provider) {
	case "claude":
		return newClaude(cfg, logger)
	case "chatgpt":
		return newChatGPT(cfg, logger)
	case "gemini":
		return newGemini(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q (available: claude, chatgpt, gemini)", cfg.Provider)
	}
}

// PacingDelay returns the unconditional pause inserted between
// generation calls for a backend. Gemini's free tier allows only a
// couple of requests per minute, hence the much longer gap.
func PacingDelay(name string) time.Duration {
	switch normalizeName(name) {
	case "claude", "chatgpt":
		return 500 * time.Millisecond
	case "gemini":
		return 5 * time.Second
	default:
		return time.Second
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func requireKey(env string) (string, error) {
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("required credential %s is not set", env)
	}
	return key, nil
}

func valueOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
