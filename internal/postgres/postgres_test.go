package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "6432")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=6432 user=postgres dbname=postgres password=postgres sslmode=disable", cfg.String())
}

func TestNewConfigFromEnvInvalidPort(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "pg")

	_, err := NewConfigFromEnv()
	assert.Error(t, err)
}
