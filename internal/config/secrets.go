package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Secrets struct {
	WiseAPIToken     string `env:"WISE_API_TOKEN"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	SMTPUsername     string `env:"SMTP_USERNAME"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`
}

func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("%w: can't parse secrets", err)
	}
	return s, nil
}

// Validate checks the secrets required by the enabled integrations.
func (s Secrets) Validate(cfg AutomationConfig, needsWise bool) error {
	if needsWise && s.WiseAPIToken == "" {
		return fmt.Errorf("empty wise api token")
	}
	if cfg.Notifications.Telegram.Enabled && s.TelegramBotToken == "" {
		return fmt.Errorf("empty telegram bot token")
	}
	if cfg.Notifications.Email.Enabled && (s.SMTPUsername == "" || s.SMTPPassword == "") {
		return fmt.Errorf("empty smtp credentials")
	}
	return nil
}
