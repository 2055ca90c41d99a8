package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		got = sendMessageRequest{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		if got.ChatID == "@broken" {
			_, _ = w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	s := NewSink(config.TelegramConfig{
		Address:            srv.URL,
		Channel:            "@main",
		DevelopmentChannel: "@dev",
	}, "token123", logger.NewNop())

	require.NoError(t, s.Send(context.Background(), notify.Development, "<b>hi</b>", true))
	assert.Equal(t, "@dev", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Equal(t, "<b>hi</b>", got.Text)

	require.NoError(t, s.Send(context.Background(), notify.Main, "plain", false))
	assert.Equal(t, "@main", got.ChatID)
	assert.Empty(t, got.ParseMode)

	s.channels[notify.Main] = "@broken"
	assert.ErrorContains(t, s.Send(context.Background(), notify.Main, "x", false), "chat not found")

	assert.Error(t, s.Send(context.Background(), notify.Channel("alerts"), "x", false))
}
