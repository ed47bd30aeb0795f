package domain

import "time"

// Article is a single feed item flowing through scoring, summarization
// and delivery. Title and URL are guaranteed non-empty by the fetcher.
// Summary and MatchedKeywords start empty and are assigned later by the
// summarizer and the selector; an empty Summary is the normal "no
// summary" state, not an error.
type Article struct {
	Title       string
	URL         string
	SourceID    string
	SourceName  string
	Description string
	Published   time.Time

	Summary         string
	MatchedKeywords []string
}
