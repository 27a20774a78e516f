// Package config loads the YAML configuration file, expanding environment
// variables and parsing string durations before validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobsift.
type Config struct {
	Sources       []SourceConfig
	Search        SearchConfig
	RateLimit     RateLimitConfig
	Retry         RetryConfig
	Contact       ContactConfig
	Notification  NotificationConfig
	Store         StoreConfig
	WatchInterval time.Duration
}

// SourceConfig describes one job source and its dispatch settings.
type SourceConfig struct {
	Name       string `yaml:"name"`
	Enabled    bool   `yaml:"enabled"`
	Priority   int    `yaml:"priority"`
	MaxResults int    `yaml:"max_results"`
}

// SearchConfig holds default search parameters, overridable per invocation.
type SearchConfig struct {
	Keywords   []string `yaml:"keywords"`
	Location   string   `yaml:"location"`
	RemoteOnly bool     `yaml:"remote_only"`
	Limit      int      `yaml:"limit"`
}

// RateLimitConfig bounds the jittered delay between requests to one target.
type RateLimitConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// RetryConfig controls the retry decorator around each source.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// ContactConfig controls enrichment.
type ContactConfig struct {
	Enabled        bool
	Workers        int
	ResolverURL    string   // company-directory base URL
	BlockedDomains []string // extra job-board domains to reject
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	Sources       []SourceConfig     `yaml:"sources"`
	Search        SearchConfig       `yaml:"search"`
	RateLimit     rawRateLimitConfig `yaml:"rate_limit"`
	Retry         rawRetryConfig     `yaml:"retry"`
	Contact       rawContactConfig   `yaml:"contact"`
	Notification  NotificationConfig `yaml:"notification"`
	Store         StoreConfig        `yaml:"store"`
	WatchInterval string             `yaml:"watch_interval"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
	MaxDelay string `yaml:"max_delay"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawContactConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Workers        int      `yaml:"workers"`
	ResolverURL    string   `yaml:"resolver_url"`
	BlockedDomains []string `yaml:"blocked_domains"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	minDelay := 1 * time.Second
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}
	maxDelay := 3 * time.Second
	if raw.RateLimit.MaxDelay != "" {
		maxDelay, err = time.ParseDuration(raw.RateLimit.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.max_delay %q: %w", raw.RateLimit.MaxDelay, err)
		}
	}

	maxRetries := 2
	if raw.Retry.MaxRetries > 0 {
		maxRetries = raw.Retry.MaxRetries
	}
	baseDelay := 2 * time.Second
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}

	watchInterval := 30 * time.Minute
	if raw.WatchInterval != "" {
		watchInterval, err = time.ParseDuration(raw.WatchInterval)
		if err != nil {
			return nil, fmt.Errorf("parse watch_interval %q: %w", raw.WatchInterval, err)
		}
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = "jobsift.db"
	}

	cfg := &Config{
		Sources:   raw.Sources,
		Search:    raw.Search,
		RateLimit: RateLimitConfig{MinDelay: minDelay, MaxDelay: maxDelay},
		Retry:     RetryConfig{MaxRetries: maxRetries, BaseDelay: baseDelay},
		Contact: ContactConfig{
			Enabled:        raw.Contact.Enabled,
			Workers:        raw.Contact.Workers,
			ResolverURL:    raw.Contact.ResolverURL,
			BlockedDomains: raw.Contact.BlockedDomains,
		},
		Notification:  raw.Notification,
		Store:         StoreConfig{Path: storePath},
		WatchInterval: watchInterval,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

var knownSources = map[string]bool{
	"arbeitnow":      true,
	"remoteok":       true,
	"remotive":       true,
	"weworkremotely": true,
}

func validate(cfg *Config) error {
	enabled := 0
	for _, s := range cfg.Sources {
		if !knownSources[s.Name] {
			return fmt.Errorf("unknown source %q", s.Name)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.RateLimit.MinDelay <= 0 {
		return fmt.Errorf("rate_limit.min_delay must be positive, got %v", cfg.RateLimit.MinDelay)
	}
	if cfg.RateLimit.MaxDelay < cfg.RateLimit.MinDelay {
		return fmt.Errorf("rate_limit.max_delay must be >= min_delay, got %v < %v",
			cfg.RateLimit.MaxDelay, cfg.RateLimit.MinDelay)
	}

	if cfg.WatchInterval < time.Minute {
		return fmt.Errorf("watch_interval must be at least 1m, got %v", cfg.WatchInterval)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}
