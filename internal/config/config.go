// Package config provides configuration management with 3-tier priority:
// Environment variables > YAML file > Default values
package config

import (
	"strings"
	"time"
)

// LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Vocabulary refresh policies.
const (
	RefreshPerRequest = "per_request"
	RefreshTTL        = "ttl"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	LLM         LLMConfig         `koanf:"llm"`
	Vocabulary  VocabularyConfig  `koanf:"vocabulary"`
	Pipeline    PipelineConfig    `koanf:"pipeline"`
	LogRotation LogRotationConfig `koanf:"log_rotation"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Scraper     ScraperConfig     `koanf:"scraper"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	LogLevel        string        `koanf:"log_level"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds cache database configuration.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// LLMConfig holds the upstream model settings.
// API keys never come from the YAML file.
type LLMConfig struct {
	Provider              string        `koanf:"provider"`
	BaseURL               string        `koanf:"base_url"`
	Model                 string        `koanf:"model"`
	APIKey                string        `koanf:"-"`
	Timeout               time.Duration `koanf:"timeout"`
	MaxTokens             int           `koanf:"max_tokens"`
	SynthesisTemperature  float64       `koanf:"synthesis_temperature"`
	NarrationTemperature  float64       `koanf:"narration_temperature"`
	PredictionTemperature float64       `koanf:"prediction_temperature"`
}

// VocabularyConfig controls how often player/team names are reloaded.
type VocabularyConfig struct {
	RefreshPolicy string        `koanf:"refresh_policy"` // per_request, ttl
	TTL           time.Duration `koanf:"ttl"`
}

// PipelineConfig holds row limits and reply options of the chat pipeline.
type PipelineConfig struct {
	RecentGamesLimit int  `koanf:"recent_games_limit"`
	RecentFormLimit  int  `koanf:"recent_form_limit"`
	PlayerGamesLimit int  `koanf:"player_games_limit"`
	TrendTailRows    int  `koanf:"trend_tail_rows"`
	DebugReplies     bool `koanf:"debug_replies"`
}

// LogRotationConfig holds log rotation settings powered by lumberjack.
type LogRotationConfig struct {
	MaxSizeMB  int  `koanf:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days"`
	Compress   bool `koanf:"compress"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled       bool `koanf:"enabled"`
	MaxRequests   int  `koanf:"max_requests"`
	WindowSeconds int  `koanf:"window_seconds"`
}

// ScraperConfig holds settings of the ingestion job.
type ScraperConfig struct {
	BaseURL    string        `koanf:"base_url"`
	SeasonYear int           `koanf:"season_year"`
	Timeout    time.Duration `koanf:"timeout"`
	UserAgent  string        `koanf:"user_agent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			LogLevel:        "INFO",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    180 * time.Second, // two LLM calls per request
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 3,
		},
		LLM: LLMConfig{
			Provider:              ProviderOpenAI,
			BaseURL:               "",
			Model:                 "gpt-4o",
			Timeout:               60 * time.Second,
			MaxTokens:             2000,
			SynthesisTemperature:  0,
			NarrationTemperature:  0.3,
			PredictionTemperature: 0.7,
		},
		Vocabulary: VocabularyConfig{
			RefreshPolicy: RefreshPerRequest,
			TTL:           5 * time.Minute,
		},
		Pipeline: PipelineConfig{
			RecentGamesLimit: 8,
			RecentFormLimit:  5,
			PlayerGamesLimit: 20,
			TrendTailRows:    5,
			DebugReplies:     true,
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			MaxRequests:   30,
			WindowSeconds: 60,
		},
		Scraper: ScraperConfig{
			BaseURL:    "https://m-league.jp",
			SeasonYear: 2025,
			Timeout:    30 * time.Second,
			UserAgent:  "Mozilla/5.0",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return &ConfigError{Field: "llm.provider", Message: "must be openai or anthropic"}
	}
	if c.LLM.Model == "" {
		return &ConfigError{Field: "llm.model", Message: "must not be empty"}
	}
	if c.LLM.Timeout <= 0 {
		return &ConfigError{Field: "llm.timeout", Message: "must be positive"}
	}
	switch c.Vocabulary.RefreshPolicy {
	case RefreshPerRequest:
	case RefreshTTL:
		if c.Vocabulary.TTL <= 0 {
			return &ConfigError{Field: "vocabulary.ttl", Message: "must be positive when refresh_policy=ttl"}
		}
	default:
		return &ConfigError{Field: "vocabulary.refresh_policy", Message: "must be per_request or ttl"}
	}
	if c.Pipeline.RecentGamesLimit < 1 || c.Pipeline.RecentFormLimit < 1 || c.Pipeline.PlayerGamesLimit < 1 {
		return &ConfigError{Field: "pipeline", Message: "row limits must be at least 1"}
	}
	if c.Scraper.SeasonYear < 2018 {
		return &ConfigError{Field: "scraper.season_year", Message: "must be 2018 or later"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + ": " + e.Message
}
