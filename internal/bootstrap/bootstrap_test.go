package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationsWithoutSinks(t *testing.T) {
	n, err := NewNotifications(context.Background(), config.AutomationConfig{}, config.Secrets{}, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, n.Dispatcher)
	assert.Nil(t, n.Email)
	assert.Nil(t, n.Journal)
	assert.NoError(t, n.Close())
}

func TestNewNotificationsWithEmail(t *testing.T) {
	cfg := config.AutomationConfig{}
	cfg.Notifications.Email = config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "bot@example.com",
		To:      []string{"me@example.com"},
		Timeout: time.Second,
	}

	n, err := NewNotifications(context.Background(), cfg, config.Secrets{SMTPUsername: "u", SMTPPassword: "p"}, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, n.Email)
}
