package ranking

import (
	"reflect"
	"testing"
	"time"

	"NewsDigest/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)
}

func TestScoreReferenceScenario(t *testing.T) {
	t.Parallel()

	// Two title hits for "AI" (×3), one description hit for "cloud"
	// (×1), published an hour ago, non-official source:
	// (2*3 + 1*1 + 5) * 1.0 = 12.
	scorer := NewScorer([]string{"AI", "cloud"}, []string{"aws_"}, fixedNow)

	article := domain.Article{
		Title:       "AI AI news",
		Description: "new cloud tooling announced",
		SourceID:    "dev_to",
		Published:   fixedNow().Add(-time.Hour),
	}

	score, matched := scorer.Score(article)
	if score != 12.0 {
		t.Fatalf("expected score 12.0, got %v", score)
	}
	if !reflect.DeepEqual(matched, []string{"AI", "cloud"}) {
		t.Fatalf("unexpected matched keywords: %v", matched)
	}
}

func TestScoreTitleOccurrencesWeighting(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"kafka"}, nil, fixedNow)
	published := fixedNow().Add(-2 * time.Hour)

	single, _ := scorer.Score(domain.Article{Title: "kafka upgrade", Published: published})
	double, _ := scorer.Score(domain.Article{Title: "kafka kafka upgrade", Published: published})

	if double-single != 3.0 {
		t.Fatalf("expected one extra title hit to add 3.0, got %v", double-single)
	}
}

func TestScoreFreshnessTiers(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"go"}, nil, fixedNow)

	cases := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"under 24h", 23 * time.Hour, 1*3.0 + 5.0},
		{"exactly 24h resolves to lower boost", 24 * time.Hour, 1*3.0 + 2.0},
		{"under 7d", 6 * 24 * time.Hour, 1*3.0 + 2.0},
		{"exactly 7d resolves to lower boost", 7 * 24 * time.Hour, 1*3.0 + 0.5},
		{"under 30d", 29 * 24 * time.Hour, 1*3.0 + 0.5},
		{"exactly 30d gets nothing", 30 * 24 * time.Hour, 1 * 3.0},
		{"older than 30d", 60 * 24 * time.Hour, 1 * 3.0},
	}

	for _, tc := range cases {
		article := domain.Article{Title: "go release", Published: fixedNow().Add(-tc.age)}
		score, _ := scorer.Score(article)
		if score != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, score)
		}
	}
}

func TestScoreTrustMultiplier(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"lambda"}, []string{"aws_", "databricks_"}, fixedNow)
	published := fixedNow().Add(-48 * time.Hour)

	official, _ := scorer.Score(domain.Article{Title: "lambda news", SourceID: "aws_blog", Published: published})
	community, _ := scorer.Score(domain.Article{Title: "lambda news", SourceID: "dev_to", Published: published})

	want := (3.0 + 2.0) * 1.3
	if official != want {
		t.Fatalf("expected official score %v, got %v", want, official)
	}
	if community != 5.0 {
		t.Fatalf("expected community score 5.0, got %v", community)
	}
}

func TestScoreNoMatchIsZero(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"rust"}, []string{"aws_"}, fixedNow)

	// Fresh and official, but no keyword occurrence anywhere.
	score, matched := scorer.Score(domain.Article{
		Title:       "general release notes",
		Description: "various fixes",
		SourceID:    "aws_blog",
		Published:   fixedNow().Add(-time.Hour),
	})
	if score != 0 {
		t.Fatalf("expected zero score, got %v", score)
	}
	if len(matched) != 0 {
		t.Fatalf("expected no matched keywords, got %v", matched)
	}
}

func TestScoreIgnoresPunctuationAndCase(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"machine learning"}, nil, fixedNow)

	score, matched := scorer.Score(domain.Article{
		Title:     "Machine-Learning, revisited!",
		Published: fixedNow().Add(-time.Hour),
	})
	// "Machine-Learning" normalizes to "machinelearning", which does
	// not contain the space-separated keyword.
	if score != 0 {
		t.Fatalf("expected no match on hyphenated form, got %v", score)
	}

	score, matched = scorer.Score(domain.Article{
		Title:     "What MACHINE learning means for ops?",
		Published: fixedNow().Add(-time.Hour),
	})
	if score != 3.0+5.0 {
		t.Fatalf("expected 8.0, got %v", score)
	}
	if !reflect.DeepEqual(matched, []string{"machine learning"}) {
		t.Fatalf("unexpected matched keywords: %v", matched)
	}
}

func TestScoreUnicodeKeywords(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"クラウド", "生成AI"}, nil, fixedNow)

	score, matched := scorer.Score(domain.Article{
		Title:     "クラウド移行の実践",
		Published: fixedNow().Add(-time.Hour),
	})
	if score != 3.0+5.0 {
		t.Fatalf("expected 8.0 for Japanese title match, got %v", score)
	}
	if !reflect.DeepEqual(matched, []string{"クラウド"}) {
		t.Fatalf("unexpected matched keywords: %v", matched)
	}

	// A mixed-script keyword must keep its non-ASCII part; otherwise
	// "生成AI" would degrade to "ai" and match unrelated titles.
	score, matched = scorer.Score(domain.Article{
		Title:     "OpenAI raises funding",
		Published: fixedNow().Add(-time.Hour),
	})
	if score != 0 {
		t.Fatalf("expected no match for mixed-script keyword, got %v", score)
	}
	if len(matched) != 0 {
		t.Fatalf("expected no matched keywords, got %v", matched)
	}
}

func TestScoreIdempotent(t *testing.T) {
	t.Parallel()

	scorer := NewScorer([]string{"AI", "cloud"}, []string{"aws_"}, fixedNow)
	article := domain.Article{
		Title:       "AI in the cloud",
		Description: "cloud cloud cloud",
		SourceID:    "aws_whatsnew",
		Published:   fixedNow().Add(-3 * time.Hour),
	}

	first, firstMatched := scorer.Score(article)
	second, secondMatched := scorer.Score(article)

	if first != second {
		t.Fatalf("scores differ across calls: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstMatched, secondMatched) {
		t.Fatalf("matched sets differ across calls: %v vs %v", firstMatched, secondMatched)
	}
}
