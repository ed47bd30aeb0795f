package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDigest/internal/ports"
	"NewsDigest/internal/ranking"
)

// PipelineDeps wires all driven adapters into the digest pipeline.
// Summarizer may be nil when AI summaries are disabled.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Selector   *ranking.Selector
	Summarizer *Summarizer
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements one batch pass: collect, rank, summarize, deliver.
type Pipeline struct {
	source     ports.ArticleSource
	selector   *ranking.Selector
	summarizer *Summarizer
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		selector:   deps.Selector,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Run executes the pipeline once. Per-article failures inside the
// stages degrade softly; only run-wide preconditions (nothing fetched,
// nothing matched) and delivery failure surface as errors.
func (p *Pipeline) Run(ctx context.Context) error {
	articles, err := p.source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("collect articles: %w", err)
	}
	if len(articles) == 0 {
		return fmt.Errorf("no articles collected from any source")
	}

	selected := p.selector.Select(articles)
	if len(selected) == 0 {
		return fmt.Errorf("no articles matched the configured keywords")
	}

	if p.summarizer != nil {
		selected = p.summarizer.SummarizeAll(ctx, selected)
	} else {
		p.logger.Info("ai summaries disabled")
	}

	if err := p.notifier.PublishDigest(ctx, selected); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}

	p.logger.Info("digest delivered", "articles", len(selected))
	return nil
}
