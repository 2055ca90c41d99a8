package email

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/notify"
	"github.com/wneessen/go-mail"
)

const _subjectPrefix = "[kih] "

var _tags = strings.NewReplacer("<u>", "", "</u>", "", "<b>", "", "</b>", "", "<i>", "", "</i>", "")

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sink mails notifications of the configured channels and ad hoc HTML reports.
type Sink struct {
	client   sender
	from     string
	to       []string
	channels []notify.Channel

	logger logger.Logger
}

func NewSink(cfg config.EmailConfig, username, password string, logger logger.Logger) (*Sink, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: can't create smtp client", err)
	}

	channels := make([]notify.Channel, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels = append(channels, notify.Channel(ch))
	}

	return &Sink{
		client:   client,
		from:     cfg.From,
		to:       cfg.To,
		channels: channels,
		logger:   logger,
	}, nil
}

func (s *Sink) Send(ctx context.Context, channel notify.Channel, message string, formatted bool) error {
	if !slices.Contains(s.channels, channel) {
		return nil
	}

	body := message
	if !formatted {
		body = html.EscapeString(message)
	}
	body = strings.ReplaceAll(body, "\n", "<br>\n")

	return s.SendReport(ctx, subject(message), body)
}

// SendReport mails an HTML document to every configured recipient.
func (s *Sink) SendReport(ctx context.Context, subject, htmlBody string) error {
	m, err := s.message(subject, htmlBody)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: can't send email %q", err, subject)
	}
	s.logger.Debugf("sent email %q to %d recipients", subject, len(s.to))

	return nil
}

func (s *Sink) message(subject, htmlBody string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("%w: invalid sender", err)
	}
	if err := m.To(s.to...); err != nil {
		return nil, fmt.Errorf("%w: invalid recipients", err)
	}
	m.Subject(subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, htmlBody)
	return m, nil
}

func subject(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return _subjectPrefix + html.UnescapeString(_tags.Replace(strings.TrimSpace(first)))
}
