package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the service reads from the environment.
type Config struct {
	Port string

	// YooKassa credentials.
	ShopID    string
	SecretKey string

	// Telegram delivery target for staff notifications.
	TelegramBotToken string
	TelegramChatID   string

	// Public frontend base URL for the post-payment redirect.
	FrontendURL string

	// Shared secret for webhook HMAC verification. Empty disables the check.
	WebhookSecret string

	PollInterval    time.Duration
	MaxPollAttempts int
}

// ConfigurationError names every required value that is missing.
type ConfigurationError struct {
	Missing []string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", strings.Join(e.Missing, ", "))
}

func Load() Config {
	return Config{
		Port:             getenvDefault("PORT", "3000"),
		ShopID:           os.Getenv("SHOP_ID"),
		SecretKey:        os.Getenv("KASSA_SECRET_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		FrontendURL:      getenvDefault("FRONTEND_URL", "http://localhost:5173"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		PollInterval:     durationDefault("POLL_INTERVAL", time.Minute),
		// 1440 attempts * 60s = 24h, matching the gateway's hold window.
		MaxPollAttempts: intDefault("MAX_POLL_ATTEMPTS", 1440),
	}
}

func (c Config) Validate() error {
	var missing []string
	if c.ShopID == "" {
		missing = append(missing, "SHOP_ID")
	}
	if c.SecretKey == "" {
		missing = append(missing, "KASSA_SECRET_KEY")
	}
	if c.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return ConfigurationError{Missing: missing}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
