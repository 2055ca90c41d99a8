// Package bootstrap wires the pieces every binary needs: configuration,
// secrets and the notification dispatcher.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/journal"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/notify"
	"github.com/kih-api/automation/internal/notify/email"
	"github.com/kih-api/automation/internal/notify/telegram"
	"github.com/kih-api/automation/internal/postgres"
)

const ConfigFilePath = "./configs/automation.yaml"

// Load reads the config file and the environment secrets.
func Load(needsWise bool) (config.AutomationConfig, config.Secrets, error) {
	cfg, err := config.LoadAutomationConfig(ConfigFilePath)
	if err != nil {
		return cfg, config.Secrets{}, fmt.Errorf("%w: can't load automation cfg", err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return cfg, secrets, err
	}
	if err := secrets.Validate(cfg, needsWise); err != nil {
		return cfg, secrets, fmt.Errorf("%w: invalid secrets", err)
	}
	return cfg, secrets, nil
}

type Notifications struct {
	Dispatcher *notify.Dispatcher
	Email      *email.Sink    // nil when email is disabled
	Journal    *journal.Store // nil when the journal is disabled

	closers []func() error
}

func (n *Notifications) Close() error {
	var firstErr error
	for _, c := range n.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewNotifications(ctx context.Context, cfg config.AutomationConfig, secrets config.Secrets, logger logger.Logger) (*Notifications, error) {
	n := &Notifications{}

	var sinks []notify.Sink
	if cfg.Notifications.Telegram.Enabled {
		sinks = append(sinks, telegram.NewSink(cfg.Notifications.Telegram, secrets.TelegramBotToken, logger))
	}
	if cfg.Notifications.Email.Enabled {
		sink, err := email.NewSink(cfg.Notifications.Email, secrets.SMTPUsername, secrets.SMTPPassword, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: can't create email sink", err)
		}
		n.Email = sink
		sinks = append(sinks, sink)
	}
	if len(sinks) == 0 {
		logger.Warnf("no notification sinks enabled")
	}
	n.Dispatcher = notify.NewDispatcher(logger, sinks...)

	if !cfg.Journal.Enabled {
		return n, nil
	}

	pgCfg, err := postgres.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	db, err := postgres.NewDB(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: can't connect to journal db", err)
	}
	n.closers = append(n.closers, db.Close)

	store := journal.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = n.Close()
		return nil, err
	}
	n.Dispatcher.WithJournal(store)
	n.Journal = store

	return n, nil
}
