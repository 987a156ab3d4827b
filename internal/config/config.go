// Package config loads runtime configuration from the environment, with a
// .env file honored for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the service needs at boot.
type Config struct {
	ListenAddr string

	DatabaseURL string

	// RedisAddr, when set, switches the conversation context store from
	// the in-process map to Redis so multiple instances share anchors.
	RedisAddr     string
	RedisPassword string

	TelegramToken string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	TavilyAPIKey string

	Timezone     string
	BriefingHour int

	// DefaultEventDuration is assumed for events extracted without an end
	// time, both at extraction and inside the conflict detector.
	DefaultEventDuration time.Duration

	ExtractTimeout time.Duration
	StoreTimeout   time.Duration
	NotifyTimeout  time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("TIMEZONE", "Asia/Singapore")
	v.SetDefault("BRIEFING_HOUR", 21)
	v.SetDefault("DEFAULT_EVENT_DURATION", "1h")
	v.SetDefault("EXTRACT_TIMEOUT", "20s")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("NOTIFY_TIMEOUT", "10s")

	cfg := &Config{
		ListenAddr:           v.GetString("LISTEN_ADDR"),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		TelegramToken:        v.GetString("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:         v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:        v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:          v.GetString("OPENAI_MODEL"),
		TavilyAPIKey:         v.GetString("TAVILY_API_KEY"),
		Timezone:             v.GetString("TIMEZONE"),
		BriefingHour:         v.GetInt("BRIEFING_HOUR"),
		DefaultEventDuration: v.GetDuration("DEFAULT_EVENT_DURATION"),
		ExtractTimeout:       v.GetDuration("EXTRACT_TIMEOUT"),
		StoreTimeout:         v.GetDuration("STORE_TIMEOUT"),
		NotifyTimeout:        v.GetDuration("NOTIFY_TIMEOUT"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.BriefingHour < 0 || cfg.BriefingHour > 23 {
		return nil, fmt.Errorf("BRIEFING_HOUR must be between 0 and 23")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
