package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	defaultMaxTokens = 500
	noDescription    = "No description available."
)

// SummarizerDeps wires the text generator into the orchestrator.
type SummarizerDeps struct {
	Generator      ports.TextGenerator
	PromptTemplate string
	MaxTokens      int
	Delay          time.Duration
	Sleep          func(time.Duration)
	Logger         *slog.Logger
}

// Summarizer drives one generator instance over the selected articles,
// sequentially, with an unconditional pause between calls.
type Summarizer struct {
	generator      ports.TextGenerator
	promptTemplate string
	maxTokens      int
	delay          time.Duration
	sleep          func(time.Duration)
	logger         *slog.Logger
}

// NewSummarizer constructs the orchestration component.
func NewSummarizer(deps SummarizerDeps) *Summarizer {
	maxTokens := deps.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		generator:      deps.Generator,
		promptTemplate: deps.PromptTemplate,
		maxTokens:      maxTokens,
		delay:          deps.Delay,
		sleep:          sleep,
		logger:         logger,
	}
}

// SummarizeAll populates Summary on every article in order. A failed
// call leaves an empty summary and does not stop the batch; the
// inter-call delay applies after every call regardless of outcome.
func (s *Summarizer) SummarizeAll(ctx context.Context, articles []domain.Article) []domain.Article {
	s.logger.Info("summarization started", "articles", len(articles), "pacing", s.delay)

	for i := range articles {
		prompt := s.buildPrompt(articles[i])
		summary := s.generator.Generate(ctx, prompt, s.maxTokens)
		if summary == "" {
			s.logger.Warn("summary unavailable", "title", articles[i].Title)
		} else {
			s.logger.Debug("summary generated", "title", articles[i].Title)
		}
		articles[i].Summary = summary
		s.sleep(s.delay)
	}

	return articles
}

func (s *Summarizer) buildPrompt(article domain.Article) string {
	description := StripMarkup(article.Description)
	if description == "" {
		description = noDescription
	}
	replacer := strings.NewReplacer(
		"{title}", article.Title,
		"{description}", description,
	)
	return replacer.Replace(s.promptTemplate)
}

// StripMarkup reduces an HTML fragment to its visible text. Feed
// descriptions routinely carry markup that would pollute the prompt.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return strings.TrimSpace(text)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(doc.Text())
}
