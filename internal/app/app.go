package app

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDigest/internal/config"
	"NewsDigest/internal/infrastructure/discord"
	"NewsDigest/internal/infrastructure/feed"
	"NewsDigest/internal/infrastructure/provider"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ranking"
	"NewsDigest/internal/usecase"
)

// Application wires configuration to use cases and lifecycle handling.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance. Configuration and
// credential problems surface here, before any article is processed.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	source := feed.NewFetcher(nil, cfg.Sources, baseLogger.With("component", "feed"))

	scorer := ranking.NewScorer(cfg.Keywords, cfg.Selection.OfficialSourcePrefixes, nil)
	selector := ranking.NewSelector(scorer, cfg.Selection.MaxArticles, baseLogger.With("component", "ranking"))

	var summarizer *usecase.Summarizer
	if cfg.AI.Enabled {
		generator, err := provider.New(cfg.AI, baseLogger.With("component", "provider"))
		if err != nil {
			return nil, fmt.Errorf("configure ai provider: %w", err)
		}
		summarizer = usecase.NewSummarizer(usecase.SummarizerDeps{
			Generator:      generator,
			PromptTemplate: cfg.AI.SummaryPrompt,
			MaxTokens:      cfg.AI.MaxTokens,
			Delay:          provider.PacingDelay(cfg.AI.Provider),
			Logger:         baseLogger.With("component", "summarizer"),
		})
	}

	notifier := discord.NewNotifier(cfg.Discord, cfg.Scheduler.Location(), baseLogger.With("component", "discord"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Selector:   selector,
		Summarizer: summarizer,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run performs a single pipeline pass, or blocks on the cron schedule
// when the scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	if !a.cfg.Scheduler.Enabled {
		return a.pipeline.Run(ctx)
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	recurring := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Timezone)

	<-ctx.Done()
	return recurring.Stop(context.Background())
}
