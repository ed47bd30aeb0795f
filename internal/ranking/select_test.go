package ranking

import (
	"fmt"
	"testing"
	"time"

	"NewsDigest/internal/domain"
)

func TestSelectDropsNonMatching(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"redis"}, nil, fixedNow)
	selector := NewSelector(scorer, 10, nil)

	articles := []domain.Article{
		{Title: "redis 8 released", URL: "https://a", Published: fixedNow().Add(-time.Hour)},
		{Title: "unrelated post", URL: "https://b", Published: fixedNow().Add(-time.Hour)},
	}

	selected := selector.Select(articles)
	if len(selected) != 1 {
		t.Fatalf("expected 1 selected article, got %d", len(selected))
	}
	if selected[0].URL != "https://a" {
		t.Fatalf("unexpected selection: %v", selected[0].URL)
	}
	if len(selected[0].MatchedKeywords) != 1 || selected[0].MatchedKeywords[0] != "redis" {
		t.Fatalf("matched keywords not populated: %v", selected[0].MatchedKeywords)
	}

	// Dropped input articles stay untouched.
	if articles[1].MatchedKeywords != nil {
		t.Fatalf("dropped article was mutated: %v", articles[1].MatchedKeywords)
	}
}

func TestSelectOrdersByScoreThenPublished(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"etcd"}, nil, fixedNow)
	selector := NewSelector(scorer, 10, nil)

	older := fixedNow().Add(-5 * time.Hour)
	newer := fixedNow().Add(-1 * time.Hour)

	articles := []domain.Article{
		{Title: "etcd maintenance", URL: "https://older", Published: older},
		{Title: "etcd etcd deep dive", URL: "https://strong", Published: older},
		{Title: "etcd maintenance", URL: "https://newer", Published: newer},
	}

	selected := selector.Select(articles)
	if len(selected) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(selected))
	}
	if selected[0].URL != "https://strong" {
		t.Fatalf("expected highest score first, got %s", selected[0].URL)
	}
	// Equal scores: later publish time wins.
	if selected[1].URL != "https://newer" || selected[2].URL != "https://older" {
		t.Fatalf("tie-break on published failed: %s, %s", selected[1].URL, selected[2].URL)
	}
}

func TestSelectTruncatesAfterSorting(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"linux"}, nil, fixedNow)
	selector := NewSelector(scorer, 10, nil)

	articles := make([]domain.Article, 0, 23)
	for i := 0; i < 23; i++ {
		articles = append(articles, domain.Article{
			Title:     "linux update",
			URL:       fmt.Sprintf("https://example.org/%d", i),
			Published: fixedNow().Add(-time.Duration(i) * time.Hour),
		})
	}

	selected := selector.Select(articles)
	if len(selected) != 10 {
		t.Fatalf("expected truncation to 10, got %d", len(selected))
	}
	// All equal scores except freshness tiers; the newest must survive.
	if selected[0].URL != "https://example.org/0" {
		t.Fatalf("expected newest article first, got %s", selected[0].URL)
	}
}

func TestSelectLengthIsMinOfEligibleAndMax(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"vault"}, nil, fixedNow)
	selector := NewSelector(scorer, 5, nil)

	articles := []domain.Article{
		{Title: "vault tips", URL: "https://a", Published: fixedNow().Add(-time.Hour)},
		{Title: "vault tricks", URL: "https://b", Published: fixedNow().Add(-time.Hour)},
		{Title: "nothing relevant", URL: "https://c", Published: fixedNow().Add(-time.Hour)},
	}

	selected := selector.Select(articles)
	if len(selected) != 2 {
		t.Fatalf("expected min(eligible, max) = 2, got %d", len(selected))
	}
}
