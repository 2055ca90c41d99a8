package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/kih-api/automation/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	_ibkrAddressDefault           = "https://localhost:5000/v1/api"
	_ibkrRequestsPerSecondDefault = 10
	_ibkrExchangeDefault          = model.Nasdaq
	_ibkrReplyConfirmationsMax    = 5

	_wiseSandboxAddress           = "https://api.sandbox.transferwise.tech"
	_wiseLiveAddress              = "https://api.transferwise.com"
	_wiseRequestsPerMinuteDefault = 60

	_telegramAddressDefault = "https://api.telegram.org"

	_smtpPortDefault = 587

	_ledgerPathDefault          = "./finance.xlsx"
	_ledgerSettingsSheetDefault = "Settings"

	_timeoutDefault = 30 * time.Second
)

type IBKRConfig struct {
	Address            string         `yaml:"address"`
	AccountID          string         `yaml:"account_id"`
	InsecureSkipVerify bool           `yaml:"insecure_skip_verify"` // client portal gateway serves a self-signed certificate
	RequestsPerSecond  int            `yaml:"requests_per_second"`
	Timeout            time.Duration  `yaml:"timeout"`
	DefaultExchange    model.Exchange `yaml:"default_exchange"`
	ReplyConfirmations int            `yaml:"reply_confirmations"`
}

func (c *IBKRConfig) Setup() error {
	if c.Address == "" {
		c.Address = _ibkrAddressDefault
	}
	if _, err := url.Parse(c.Address); err != nil {
		return fmt.Errorf("%w: invalid ibkr address", err)
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = _ibkrRequestsPerSecondDefault
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	if c.DefaultExchange == "" {
		c.DefaultExchange = _ibkrExchangeDefault
	}
	if _, err := model.ParseExchange(string(c.DefaultExchange)); err != nil {
		return fmt.Errorf("%w: invalid default exchange", err)
	}
	if c.ReplyConfirmations <= 0 {
		c.ReplyConfirmations = _ibkrReplyConfirmationsMax
	}
	return nil
}

type WiseConfig struct {
	Address           string        `yaml:"address"`
	Live              bool          `yaml:"live"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

func (c *WiseConfig) Setup() error {
	if c.Address == "" {
		c.Address = _wiseSandboxAddress
		if c.Live {
			c.Address = _wiseLiveAddress
		}
	}
	if _, err := url.Parse(c.Address); err != nil {
		return fmt.Errorf("%w: invalid wise address", err)
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = _wiseRequestsPerMinuteDefault
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	return nil
}

type TelegramConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Address            string        `yaml:"address"`
	Channel            string        `yaml:"channel"`
	DevelopmentChannel string        `yaml:"development_channel"`
	Timeout            time.Duration `yaml:"timeout"`
}

func (c *TelegramConfig) Setup() error {
	if !c.Enabled {
		return nil
	}
	if c.Address == "" {
		c.Address = _telegramAddressDefault
	}
	if c.Channel == "" {
		return fmt.Errorf("telegram channel is required")
	}
	if c.DevelopmentChannel == "" {
		c.DevelopmentChannel = c.Channel
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	return nil
}

type EmailConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	From     string        `yaml:"from"`
	To       []string      `yaml:"to"`
	Channels []string      `yaml:"channels"` // notification channels mirrored to email
	Timeout  time.Duration `yaml:"timeout"`
}

func (c *EmailConfig) Setup() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.From == "" || len(c.To) == 0 {
		return fmt.Errorf("email sender and recipients are required")
	}
	if c.Port <= 0 {
		c.Port = _smtpPortDefault
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	for _, ch := range c.Channels {
		if !slices.Contains([]string{"main", "development"}, ch) {
			return fmt.Errorf("unknown email channel %q", ch)
		}
	}
	return nil
}

type NotificationsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Email    EmailConfig    `yaml:"email"`
}

type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LedgerConfig struct {
	Path          string `yaml:"path"`
	SettingsSheet string `yaml:"settings_sheet"`
}

func (c *LedgerConfig) Setup() {
	if c.Path == "" {
		c.Path = _ledgerPathDefault
	}
	if c.SettingsSheet == "" {
		c.SettingsSheet = _ledgerSettingsSheetDefault
	}
}

type AutomationConfig struct {
	LogLevel      string              `yaml:"log_level"`
	IBKR          IBKRConfig          `yaml:"ibkr"`
	Wise          WiseConfig          `yaml:"wise"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Journal       JournalConfig       `yaml:"journal"`
	Ledger        LedgerConfig        `yaml:"ledger"`
}

func (c *AutomationConfig) ValidateAndSetup() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if err := c.IBKR.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup ibkr", err)
	}
	if err := c.Wise.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup wise", err)
	}
	if err := c.Notifications.Telegram.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup telegram", err)
	}
	if err := c.Notifications.Email.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup email", err)
	}
	c.Ledger.Setup()

	return nil
}

func LoadAutomationConfig(filename string) (AutomationConfig, error) {
	var cfg AutomationConfig
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
