package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bivekich/delikadessa-backend/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("MAX_POLL_ATTEMPTS", "")

	cfg := config.Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 1440, cfg.MaxPollAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("MAX_POLL_ATTEMPTS", "10")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.MaxPollAttempts)
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	var confErr config.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.ElementsMatch(t, []string{
		"SHOP_ID",
		"KASSA_SECRET_KEY",
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID",
	}, confErr.Missing)
}

func TestValidateComplete(t *testing.T) {
	cfg := config.Config{
		ShopID:           "shop",
		SecretKey:        "secret",
		TelegramBotToken: "token",
		TelegramChatID:   "chat",
	}

	assert.NoError(t, cfg.Validate())
}
