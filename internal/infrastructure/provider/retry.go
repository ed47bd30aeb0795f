package provider

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"NewsDigest/internal/ports"
)

// backoffPolicy describes one backend's retry behaviour. With
// exponential unset the delay grows linearly with the attempt number;
// otherwise it doubles from baseDelay up to capDelay.
type backoffPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	capDelay    time.Duration
	exponential bool
}

func (p backoffPolicy) delay(attempt int) time.Duration {
	if !p.exponential {
		return p.baseDelay * time.Duration(attempt)
	}
	d := p.baseDelay << (attempt - 1)
	if p.capDelay > 0 && d > p.capDelay {
		d = p.capDelay
	}
	return d
}

// generator wraps a backend call with that backend's retry policy. The
// sleep function is injectable so tests assert on requested delays
// without waiting.
type generator struct {
	name   string
	call   func(ctx context.Context, prompt string, maxTokens int) (string, error)
	policy backoffPolicy
	sleep  func(time.Duration)
	logger *slog.Logger
}

var _ ports.TextGenerator = (*generator)(nil)

// Generate runs one call under the retry policy. Only rate-limited
// failures are retried; everything else, including exhaustion of the
// attempt budget, degrades to an empty string and a log line.
func (g *generator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	for attempt := 1; attempt <= g.policy.maxAttempts; attempt++ {
		text, err := g.call(ctx, prompt, maxTokens)
		if err == nil {
			return strings.TrimSpace(text)
		}

		var failure *apiError
		if errors.As(err, &failure) && failure.kind == FailureRateLimited {
			if attempt == g.policy.maxAttempts {
				break
			}
			wait := g.policy.delay(attempt)
			g.logger.Warn("rate limited",
				"provider", g.name,
				"attempt", attempt,
				"max_attempts", g.policy.maxAttempts,
				"wait", wait)
			g.sleep(wait)
			continue
		}

		g.logger.Error("generation failed", "provider", g.name, "error", err)
		return ""
	}

	g.logger.Error("generation retries exhausted", "provider", g.name, "attempts", g.policy.maxAttempts)
	return ""
}
