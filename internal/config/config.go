// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Source formats the watcher can consume.
const (
	SourceHTML = "html"
	SourceRSS  = "rss"
)

// Config holds the application configuration.
type Config struct {
	ChannelURL   string
	SourceFormat string
	PollInterval time.Duration
	Port         int
	DataDir      string

	TelegramBotToken string
	TelegramChatID   string

	VapidPublicKey  string
	VapidPrivateKey string
	VapidSubject    string

	LogLevel   string
	Production bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ChannelURL:       envOrDefault("TELEGRAM_CHANNEL_URL", "https://t.me/s/pat_cherkasyoblenergo"),
		SourceFormat:     envOrDefault("SOURCE_FORMAT", SourceHTML),
		DataDir:          envOrDefault("DATA_DIR", "./data"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		VapidPublicKey:   os.Getenv("VAPID_PUBLIC_KEY"),
		VapidPrivateKey:  os.Getenv("VAPID_PRIVATE_KEY"),
		VapidSubject:     os.Getenv("VAPID_SUBJECT"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		Production:       os.Getenv("NODE_ENV") == "production" || os.Getenv("APP_ENV") == "production",
	}

	if cfg.SourceFormat != SourceHTML && cfg.SourceFormat != SourceRSS {
		return nil, fmt.Errorf("SOURCE_FORMAT must be %q or %q, got %q", SourceHTML, SourceRSS, cfg.SourceFormat)
	}

	seconds, err := envInt("POLL_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", seconds)
	}
	cfg.PollInterval = time.Duration(seconds) * time.Second

	cfg.Port, err = envInt("PORT", 3000)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// TelegramEnabled reports whether the chat notifier is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// PushEnabled reports whether web-push delivery is configured.
func (c *Config) PushEnabled() bool {
	return c.VapidPublicKey != "" && c.VapidPrivateKey != "" && c.VapidSubject != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
