package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const defaultMaxItems = 20

// Fetcher pulls articles from the configured RSS/Atom sources. A source
// that cannot be fetched or parsed contributes zero articles; only the
// run as a whole fails when every source came back empty.
type Fetcher struct {
	client  *http.Client
	sources []config.SourceConfig
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.ArticleSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; nil means a 20s-timeout default.
func NewFetcher(client *http.Client, sources []config.SourceConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, sources: sources, logger: logger, now: time.Now}
}

// FetchAll collects articles from every source in configuration order.
func (f *Fetcher) FetchAll(ctx context.Context) ([]domain.Article, error) {
	var aggregated []domain.Article
	for _, src := range f.sources {
		articles, err := f.fetchSource(ctx, src)
		if err != nil {
			f.logger.Warn("source fetch failed", "source", src.Name, "error", err)
			continue
		}
		f.logger.Info("source fetched", "source", src.Name, "articles", len(articles))
		aggregated = append(aggregated, articles...)
	}

	f.logger.Info("collection done", "sources", len(f.sources), "articles", len(aggregated))
	return aggregated, nil
}

func (f *Fetcher) fetchSource(ctx context.Context, src config.SourceConfig) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsDigest/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	return f.parse(resp.Body, src)
}

func (f *Fetcher) parse(r io.Reader, src config.SourceConfig) ([]domain.Article, error) {
	entries, err := decodeFeed(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	maxItems := src.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	if len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	fetchedAt := f.now().UTC()
	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		if entry.title == "" || entry.link == "" {
			continue
		}

		published := fetchedAt
		if parsed, ok := parseFeedTime(entry.published); ok {
			published = parsed
		}

		articles = append(articles, domain.Article{
			Title:       entry.title,
			URL:         entry.link,
			SourceID:    src.ID,
			SourceName:  src.Name,
			Description: entry.description,
			Published:   published,
		})
	}

	return articles, nil
}
