package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// entry is the wire-format-independent view of one feed item.
type entry struct {
	title       string
	link        string
	description string
	published   string
}

// document covers both RSS 2.0 (<rss><channel><item>) and Atom
// (<feed><entry>) in one shape; whichever side the feed populates wins.
type document struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

func decodeFeed(r io.Reader) ([]entry, error) {
	var doc document
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	if len(doc.Channel.Items) > 0 {
		entries := make([]entry, 0, len(doc.Channel.Items))
		for _, item := range doc.Channel.Items {
			entries = append(entries, entry{
				title:       strings.TrimSpace(item.Title),
				link:        strings.TrimSpace(item.Link),
				description: strings.TrimSpace(item.Description),
				published:   strings.TrimSpace(item.PubDate),
			})
		}
		return entries, nil
	}

	entries := make([]entry, 0, len(doc.Entries))
	for _, item := range doc.Entries {
		published := item.Published
		if published == "" {
			published = item.Updated
		}
		entries = append(entries, entry{
			title:       strings.TrimSpace(item.Title),
			link:        alternateLink(item.Links),
			description: strings.TrimSpace(item.Summary),
			published:   strings.TrimSpace(published),
		})
	}
	return entries, nil
}

// alternateLink prefers rel="alternate" (or no rel at all) over
// self/edit links.
func alternateLink(links []atomLink) string {
	for _, link := range links {
		if link.Rel == "" || link.Rel == "alternate" {
			return strings.TrimSpace(link.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}

// feedTimeFormats lists the publish-date layouts seen in the wild,
// most common first.
var feedTimeFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

func parseFeedTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range feedTimeFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
