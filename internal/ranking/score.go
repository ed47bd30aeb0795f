package ranking

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"NewsDigest/internal/domain"
)

const (
	titleWeight       = 3.0
	descriptionWeight = 1.0
	trustMultiplier   = 1.3
)

// nonWord strips everything that is neither a word character nor
// whitespace. Spelled out with Unicode classes because RE2's \w is
// ASCII-only and feeds and keywords are not.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Scorer computes topical relevance for articles against a keyword set.
// Scoring is deterministic and has no side effects; callers decide
// whether to store the matched terms.
type Scorer struct {
	keywords         []string
	officialPrefixes []string
	now              func() time.Time
}

// NewScorer builds a scorer. The now function is injectable for tests;
// nil means the wall clock.
func NewScorer(keywords, officialPrefixes []string, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{
		keywords:         keywords,
		officialPrefixes: officialPrefixes,
		now:              now,
	}
}

// Score returns the article's relevance score and the sorted set of
// keywords that matched. An article with no keyword occurrence at all
// scores zero; freshness and source trust only reorder articles that
// matched something.
func (s *Scorer) Score(article domain.Article) (float64, []string) {
	title := normalize(article.Title)
	description := normalize(article.Description)

	var keywordComponent float64
	var matched []string
	for _, kw := range s.keywords {
		needle := normalize(kw)
		if needle == "" {
			continue
		}
		titleHits := strings.Count(title, needle)
		descHits := strings.Count(description, needle)
		keywordComponent += float64(titleHits)*titleWeight + float64(descHits)*descriptionWeight
		if titleHits > 0 || descHits > 0 {
			matched = append(matched, kw)
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	sort.Strings(matched)

	score := (keywordComponent + s.freshnessBoost(article.Published)) * s.trust(article.SourceID)
	return score, matched
}

// freshnessBoost decays in tiers with article age. Comparisons are
// strict less-than, so an age exactly on a boundary gets the lower tier.
func (s *Scorer) freshnessBoost(published time.Time) float64 {
	age := s.now().Sub(published)
	switch {
	case age < 24*time.Hour:
		return 5.0
	case age < 7*24*time.Hour:
		return 2.0
	case age < 30*24*time.Hour:
		return 0.5
	default:
		return 0
	}
}

func (s *Scorer) trust(sourceID string) float64 {
	for _, prefix := range s.officialPrefixes {
		if strings.HasPrefix(sourceID, prefix) {
			return trustMultiplier
		}
	}
	return 1.0
}

// normalize case-folds and strips everything that is neither a word
// character nor whitespace, so keyword matching ignores punctuation.
func normalize(text string) string {
	return nonWord.ReplaceAllString(strings.ToLower(text), "")
}
