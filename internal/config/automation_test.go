package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kih-api/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAutomationConfigDefaults(t *testing.T) {
	cfg, err := LoadAutomationConfig(writeConfig(t, `
ibkr:
  account_id: U1234567
notifications:
  telegram:
    enabled: true
    channel: "@kih"
`))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, _ibkrAddressDefault, cfg.IBKR.Address)
	assert.Equal(t, "U1234567", cfg.IBKR.AccountID)
	assert.Equal(t, model.Nasdaq, cfg.IBKR.DefaultExchange)
	assert.Equal(t, 10, cfg.IBKR.RequestsPerSecond)
	assert.Equal(t, 30*time.Second, cfg.IBKR.Timeout)
	assert.Equal(t, _wiseSandboxAddress, cfg.Wise.Address)
	assert.Equal(t, "@kih", cfg.Notifications.Telegram.DevelopmentChannel)
	assert.Equal(t, _telegramAddressDefault, cfg.Notifications.Telegram.Address)
	assert.Equal(t, "./finance.xlsx", cfg.Ledger.Path)
	assert.Equal(t, "Settings", cfg.Ledger.SettingsSheet)
}

func TestLoadAutomationConfigLive(t *testing.T) {
	cfg, err := LoadAutomationConfig(writeConfig(t, `
wise:
  live: true
  timeout: 5s
`))
	require.NoError(t, err)
	assert.Equal(t, _wiseLiveAddress, cfg.Wise.Address)
	assert.Equal(t, 5*time.Second, cfg.Wise.Timeout)
}

func TestLoadAutomationConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown exchange", "ibkr:\n  default_exchange: LSE\n"},
		{"telegram without channel", "notifications:\n  telegram:\n    enabled: true\n"},
		{"email without host", "notifications:\n  email:\n    enabled: true\n"},
		{"email unknown channel", "notifications:\n  email:\n    enabled: true\n    host: smtp\n    from: a@b.c\n    to: [d@e.f]\n    channels: [alerts]\n"},
		{"broken yaml", "ibkr: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAutomationConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadAutomationConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSecrets(t *testing.T) {
	t.Setenv("WISE_API_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")

	s, err := LoadSecrets()
	require.NoError(t, err)
	assert.Equal(t, "bot", s.TelegramBotToken)

	var cfg AutomationConfig
	cfg.Notifications.Telegram.Enabled = true
	assert.NoError(t, s.Validate(cfg, false))
	assert.Error(t, s.Validate(cfg, true))

	cfg.Notifications.Email.Enabled = true
	assert.Error(t, s.Validate(cfg, false))
}
