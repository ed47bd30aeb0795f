package ranking

import (
	"log/slog"
	"sort"

	"NewsDigest/internal/domain"
)

const defaultMaxArticles = 10

// scoredArticle pairs a score with its article only for sorting.
type scoredArticle struct {
	score   float64
	article domain.Article
}

// Selector ranks articles by score and keeps the best.
type Selector struct {
	scorer      *Scorer
	maxArticles int
	logger      *slog.Logger
}

// NewSelector wires the scorer with a truncation limit.
func NewSelector(scorer *Scorer, maxArticles int, logger *slog.Logger) *Selector {
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{scorer: scorer, maxArticles: maxArticles, logger: logger}
}

// Select scores every article, drops non-positive scores, sorts by
// (score desc, published desc) and truncates to the configured maximum.
// Articles that survive carry their matched keywords; dropped articles
// are returned untouched to the garbage collector.
func (s *Selector) Select(articles []domain.Article) []domain.Article {
	scored := make([]scoredArticle, 0, len(articles))
	for _, article := range articles {
		score, matched := s.scorer.Score(article)
		if score <= 0 {
			continue
		}
		article.MatchedKeywords = matched
		scored = append(scored, scoredArticle{score: score, article: article})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].article.Published.After(scored[j].article.Published)
	})

	if len(scored) > s.maxArticles {
		scored = scored[:s.maxArticles]
	}

	selected := make([]domain.Article, len(scored))
	for i, sc := range scored {
		selected[i] = sc.article
		s.logger.Debug("article selected",
			"source", sc.article.SourceName,
			"title", sc.article.Title,
			"score", sc.score,
			"keywords", sc.article.MatchedKeywords)
	}

	s.logger.Info("keyword selection done", "candidates", len(articles), "selected", len(selected))
	return selected
}
