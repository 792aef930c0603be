package config

import (
	"fmt"
	"time"

	"newslens/pkg/config"
)

// Config holds all configuration for the newslens service.
type Config struct {
	App         config.App        `mapstructure:"app"`
	Logger      config.Logger     `mapstructure:"logger"`
	Database    config.Database   `mapstructure:"database"`
	API         config.API        `mapstructure:"api"`
	Collector   CollectorConfig   `mapstructure:"collector"`
	Analyzer    AnalyzerConfig    `mapstructure:"analyzer"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	AI          AIConfig          `mapstructure:"ai"`
	DeepSeek    DeepSeekConfig    `mapstructure:"deepseek"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
}

// RetryPolicy bounds feed fetch retries for a source.
type RetryPolicy struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// Feed is a single feed endpoint belonging to a source.
type Feed struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Priority int    `mapstructure:"priority"`
}

// Source is a configured news outlet with one or more feeds.
type Source struct {
	Name        string      `mapstructure:"name"`
	Parser      string      `mapstructure:"parser"`
	Enabled     bool        `mapstructure:"enabled"`
	RetryPolicy RetryPolicy `mapstructure:"retry_policy"`
	Feeds       []Feed      `mapstructure:"feeds"`
}

// CollectorConfig holds feed collection settings.
type CollectorConfig struct {
	Lookback time.Duration `mapstructure:"lookback"`
	Sources  []Source      `mapstructure:"sources"`
}

// AnalyzerConfig holds batch analysis settings.
type AnalyzerConfig struct {
	TargetDay           string `mapstructure:"target_day"`
	TokenBudget         int    `mapstructure:"token_budget"`
	CharsPerToken       int    `mapstructure:"chars_per_token"`
	MaxArticlesPerBatch int    `mapstructure:"max_articles_per_batch"`
}

// MaintenanceConfig holds database maintenance settings.
type MaintenanceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// AIConfig selects the analysis provider.
type AIConfig struct {
	Provider string `mapstructure:"provider"`
}

// DeepSeekConfig holds DeepSeek provider settings.
type DeepSeekConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// GeminiConfig holds Gemini provider settings.
type GeminiConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// TelegramConfig holds optional notification settings.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Load reads the configuration file and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "json"
	}
	if cfg.Collector.Lookback <= 0 {
		cfg.Collector.Lookback = 20 * time.Hour
	}
	if cfg.Analyzer.TargetDay == "" {
		cfg.Analyzer.TargetDay = "current_day"
	}
	if cfg.Analyzer.TokenBudget <= 0 {
		cfg.Analyzer.TokenBudget = 60000
	}
	if cfg.Analyzer.CharsPerToken <= 0 {
		cfg.Analyzer.CharsPerToken = 4
	}
	if cfg.Analyzer.MaxArticlesPerBatch <= 0 {
		cfg.Analyzer.MaxArticlesPerBatch = 60
	}
	if cfg.Maintenance.Schedule == "" {
		cfg.Maintenance.Schedule = "30 3 * * *"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "deepseek"
	}

	for i := range cfg.Collector.Sources {
		rp := &cfg.Collector.Sources[i].RetryPolicy
		if rp.MaxAttempts <= 0 {
			rp.MaxAttempts = 3
		}
		if rp.MinDelay <= 0 {
			rp.MinDelay = 2 * time.Second
		}
		if rp.MaxDelay < rp.MinDelay {
			rp.MaxDelay = rp.MinDelay
		}
	}

	return &cfg, nil
}
