package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	// Discord refuses more than 10 embeds per webhook message;
	// exceeding it here would be a programming error, not a server
	// condition we react to.
	maxEmbedsPerMessage = 10

	defaultColor    = 0x5865F2 // Discord blurple
	defaultGlyph    = "📄"
	defaultUsername = "📰 Tech News Bot"
)

var sourceGlyphs = map[string]string{
	"aws_whatsnew":             "☁️",
	"aws_blog":                 "📖",
	"databricks_blog":          "🔥",
	"databricks_release_notes": "📋",
	"dev_to":                   "💻",
	"medium_engineering":       "📰",
}

var sourceColors = map[string]int{
	"aws_whatsnew":             0xFF9900,
	"aws_blog":                 0xFFD100,
	"databricks_blog":          0xE8192C,
	"databricks_release_notes": 0xC41230,
	"dev_to":                   0x0F0F0F,
	"medium_engineering":       0x02B875,
}

// Embed is one rich-message unit in a webhook payload.
type Embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedFooter names the source and the localized publish time.
type EmbedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []Embed `json:"embeds"`
}

// Notifier renders ranked articles into Discord embeds and delivers
// them through a webhook, at most ten embeds per message.
type Notifier struct {
	webhookURL string
	username   string
	avatarURL  string
	dryRun     bool
	client     *http.Client
	limiter    *rate.Limiter
	location   *time.Location
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires the webhook configuration. The location controls
// how publish times are rendered in embed footers.
func NewNotifier(cfg config.DiscordConfig, location *time.Location, logger *slog.Logger) *Notifier {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	username := cfg.Username
	if username == "" {
		username = defaultUsername
	}

	return &Notifier{
		webhookURL: cfg.WebhookURL,
		username:   username,
		avatarURL:  cfg.AvatarURL,
		dryRun:     cfg.DryRun,
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		location:   location,
		logger:     logger,
		now:        time.Now,
	}
}

// PublishDigest renders and delivers the digest. A failed chunk is
// logged and does not stop later chunks, but overall success requires
// every chunk to land.
func (n *Notifier) PublishDigest(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return fmt.Errorf("no articles to deliver")
	}

	embeds := n.buildEmbeds(articles)

	if n.dryRun {
		n.logger.Info("dry run, skipping delivery", "embeds", len(embeds))
		for _, embed := range embeds {
			n.logger.Info("embed", "title", embed.Title)
		}
		return nil
	}

	if n.webhookURL == "" {
		return fmt.Errorf("discord webhook url is not configured")
	}

	chunks := chunkEmbeds(embeds, maxEmbedsPerMessage)
	var failed int
	for i, chunk := range chunks {
		if err := n.send(ctx, chunk); err != nil {
			n.logger.Error("message delivery failed",
				"message", i+1, "messages", len(chunks), "error", err)
			failed++
			continue
		}
		n.logger.Info("message delivered",
			"message", i+1, "messages", len(chunks), "embeds", len(chunk))
	}

	if failed > 0 {
		return fmt.Errorf("delivery failed for %d of %d messages", failed, len(chunks))
	}
	return nil
}

func (n *Notifier) buildEmbeds(articles []domain.Article) []Embed {
	now := n.now().In(n.location)

	header := Embed{
		Title: fmt.Sprintf("📰 Daily Tech News — %s", now.Format("Jan 2, 2006")),
		Description: fmt.Sprintf(
			"**%d** articles matched your keywords.\nAI summaries are attached where available.",
			len(articles)),
		Color:     defaultColor,
		Timestamp: now.Format(time.RFC3339),
	}

	embeds := make([]Embed, 0, len(articles)+1)
	embeds = append(embeds, header)
	for _, article := range articles {
		embeds = append(embeds, n.articleEmbed(article))
	}
	return embeds
}

func (n *Notifier) articleEmbed(article domain.Article) Embed {
	glyph, ok := sourceGlyphs[article.SourceID]
	if !ok {
		glyph = defaultGlyph
	}
	color, ok := sourceColors[article.SourceID]
	if !ok {
		color = defaultColor
	}

	var parts []string
	if len(article.MatchedKeywords) > 0 {
		tags := make([]string, len(article.MatchedKeywords))
		for i, kw := range article.MatchedKeywords {
			tags[i] = "`" + kw + "`"
		}
		parts = append(parts, "🏷️ "+strings.Join(tags, " "))
	}
	if article.Summary != "" {
		parts = append(parts, "🤖 **AI summary:** "+article.Summary)
	}

	description := "No description"
	if len(parts) > 0 {
		description = strings.Join(parts, "\n")
	}

	return Embed{
		Title:       glyph + " " + article.Title,
		URL:         article.URL,
		Description: description,
		Color:       color,
		Footer: &EmbedFooter{
			Text: fmt.Sprintf("%s  •  %s",
				article.SourceName,
				article.Published.In(n.location).Format("01/02 15:04")),
		},
	}
}

func chunkEmbeds(embeds []Embed, size int) [][]Embed {
	chunks := make([][]Embed, 0, (len(embeds)+size-1)/size)
	for start := 0; start < len(embeds); start += size {
		end := start + size
		if end > len(embeds) {
			end = len(embeds)
		}
		chunks = append(chunks, embeds[start:end])
	}
	return chunks
}

func (n *Notifier) send(ctx context.Context, embeds []Embed) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		Username:  n.username,
		AvatarURL: n.avatarURL,
		Embeds:    embeds,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	return nil
}
