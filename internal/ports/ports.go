package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// ArticleSource pulls candidate articles from all configured feeds.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.Article, error)
}

// TextGenerator produces model text for a prompt. Implementations own
// their retry policy; a call that ultimately fails returns an empty
// string rather than an error, so one bad article never stops a batch.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) string
}

// Notifier delivers the ranked digest to a chat channel.
type Notifier interface {
	PublishDigest(ctx context.Context, articles []domain.Article) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
