package telegram

import (
	"context"
	"fmt"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/notify"
	"github.com/kih-api/automation/internal/restclient"
	"resty.dev/v3"
)

const (
	_sendMessageURL   = "/bot{token}/sendMessage"
	_maxMessageLength = 4096
)

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type Sink struct {
	c        *resty.Client
	token    string
	channels map[notify.Channel]string

	logger logger.Logger
}

func NewSink(cfg config.TelegramConfig, token string, logger logger.Logger) *Sink {
	return &Sink{
		c: restclient.New(restclient.Config{
			Address: cfg.Address,
			Timeout: cfg.Timeout,
		}, logger),
		token: token,
		channels: map[notify.Channel]string{
			notify.Main:        cfg.Channel,
			notify.Development: cfg.DevelopmentChannel,
		},
		logger: logger,
	}
}

func (s *Sink) Send(ctx context.Context, channel notify.Channel, message string, formatted bool) error {
	chatID, ok := s.channels[channel]
	if !ok || chatID == "" {
		return fmt.Errorf("no telegram chat for %s channel", channel)
	}

	if r := []rune(message); len(r) > _maxMessageLength {
		message = string(r[:_maxMessageLength])
	}

	body := sendMessageRequest{
		ChatID:                chatID,
		Text:                  message,
		DisableWebPagePreview: true,
	}
	if formatted {
		body.ParseMode = "HTML"
	}

	var result sendMessageResponse
	resp, err := s.c.R().
		SetContext(ctx).
		SetPathParam("token", s.token).
		SetBody(body).
		SetResult(&result).
		Post(_sendMessageURL)
	if err := restclient.Check(s.logger, resp, err, "send telegram message"); err != nil {
		return err
	}

	if !result.OK {
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}
	return nil
}
