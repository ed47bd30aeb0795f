package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Tokyo"
	configPathEnv   = "NEWS_DIGEST_CONFIG"
	webhookURLEnv   = "DISCORD_WEBHOOK_URL"
	dryRunEnv       = "DRY_RUN"
	aiProviderEnv   = "AI_PROVIDER"
	aiModelEnv      = "AI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Keywords  []string        `yaml:"keywords"`
	Sources   []SourceConfig  `yaml:"sources"`
	Selection SelectionConfig `yaml:"selection"`
	AI        AIConfig        `yaml:"ai"`
	Discord   DiscordConfig   `yaml:"discord"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig describes a single RSS/Atom feed to collect from.
type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	MaxItems int    `yaml:"maxItems"`
}

// SelectionConfig tunes ranking and truncation.
type SelectionConfig struct {
	MaxArticles            int      `yaml:"maxArticles"`
	OfficialSourcePrefixes []string `yaml:"officialSourcePrefixes"`
}

// AIConfig defines the summarization backend. The credential is read
// from the backend's environment variable, never from this file.
type AIConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	MaxTokens     int    `yaml:"maxTokens"`
	SummaryPrompt string `yaml:"summaryPrompt"`
	Endpoint      string `yaml:"endpoint"`
}

// DiscordConfig wires the webhook delivery channel.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
	Username   string `yaml:"username"`
	AvatarURL  string `yaml:"avatarUrl"`
	DryRun     bool   `yaml:"dryRun"`
}

// SchedulerConfig defines the optional cron mode and the timezone used
// both for scheduling and for rendering publish times in the digest.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the configured timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				var set boolKeys
				_ = yaml.Unmarshal(raw, &set)
				cfg = mergeConfig(cfg, fileCfg, set)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = defaultConfig().Keywords
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Discord.WebhookURL = v
	}

	if v := os.Getenv(dryRunEnv); v != "" {
		c.Discord.DryRun = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	if v := os.Getenv(aiProviderEnv); v != "" {
		c.AI.Provider = v
	}

	if v := os.Getenv(aiModelEnv); v != "" {
		c.AI.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// boolKeys mirrors the boolean settings of Config with pointers, so a
// file that omits a key can be told apart from one that sets it false.
type boolKeys struct {
	AI struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"ai"`
	Discord struct {
		DryRun *bool `yaml:"dryRun"`
	} `yaml:"discord"`
	Scheduler struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"scheduler"`
}

func mergeConfig(base, override Config, set boolKeys) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Keywords) > 0 {
		base.Keywords = override.Keywords
	}
	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	if override.Selection.MaxArticles > 0 {
		base.Selection.MaxArticles = override.Selection.MaxArticles
	}
	if len(override.Selection.OfficialSourcePrefixes) > 0 {
		base.Selection.OfficialSourcePrefixes = override.Selection.OfficialSourcePrefixes
	}

	if set.AI.Enabled != nil {
		base.AI.Enabled = *set.AI.Enabled
	}
	if override.AI.Provider != "" {
		base.AI.Provider = override.AI.Provider
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.MaxTokens > 0 {
		base.AI.MaxTokens = override.AI.MaxTokens
	}
	if override.AI.SummaryPrompt != "" {
		base.AI.SummaryPrompt = override.AI.SummaryPrompt
	}
	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}

	if override.Discord.WebhookURL != "" {
		base.Discord.WebhookURL = override.Discord.WebhookURL
	}
	if override.Discord.Username != "" {
		base.Discord.Username = override.Discord.Username
	}
	if override.Discord.AvatarURL != "" {
		base.Discord.AvatarURL = override.Discord.AvatarURL
	}
	if set.Discord.DryRun != nil {
		base.Discord.DryRun = *set.Discord.DryRun
	}

	if set.Scheduler.Enabled != nil {
		base.Scheduler.Enabled = *set.Scheduler.Enabled
	}
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Keywords: []string{"AI", "LLM", "machine learning", "cloud", "data engineering"},
		Sources: []SourceConfig{
			{ID: "aws_whatsnew", Name: "AWS What's New", URL: "https://aws.amazon.com/about-aws/whats-new/recent/feed/", MaxItems: 20},
			{ID: "aws_blog", Name: "AWS News Blog", URL: "https://aws.amazon.com/blogs/aws/feed/", MaxItems: 20},
			{ID: "databricks_blog", Name: "Databricks Blog", URL: "https://www.databricks.com/feed", MaxItems: 20},
			{ID: "dev_to", Name: "DEV Community", URL: "https://dev.to/feed", MaxItems: 20},
			{ID: "medium_engineering", Name: "Medium Engineering", URL: "https://medium.engineering/feed", MaxItems: 20},
		},
		Selection: SelectionConfig{
			MaxArticles:            10,
			OfficialSourcePrefixes: []string{"aws_", "databricks_"},
		},
		AI: AIConfig{
			Enabled:   false,
			Provider:  "claude",
			MaxTokens: 500,
			SummaryPrompt: "Summarize the following tech news article in two or three sentences.\n\n" +
				"Title: {title}\nDescription: {description}",
		},
		Discord: DiscordConfig{
			Username: "📰 Tech News Bot",
		},
		Scheduler: SchedulerConfig{
			Enabled:        false,
			CronExpression: "0 7 * * *",
			Timezone:       defaultTimezone,
			location:       tz,
		},
	}
}
