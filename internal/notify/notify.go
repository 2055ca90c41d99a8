// Package notify turns orchestration outcomes into chat and email messages.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/kih-api/automation/internal/tools"
)

type Channel string

const (
	Main        Channel = "main"
	Development Channel = "development"
)

// Event is an outcome worth telling the user about. Render returns HTML.
type Event interface {
	Kind() string
	Channel() Channel
	Render() string
}

// Sink delivers one message to an outbound channel.
type Sink interface {
	Send(ctx context.Context, channel Channel, message string, formatted bool) error
}

type Record struct {
	Kind       string    `db:"kind"`
	Channel    Channel   `db:"channel"`
	Message    string    `db:"message"`
	OccurredAt time.Time `db:"occurred_at"`
}

type Journal interface {
	Save(ctx context.Context, r Record) error
}

type field struct {
	name  string
	value string
}

func render(title string, fields ...field) string {
	var b strings.Builder
	b.WriteString("<u><b>")
	b.WriteString(title)
	b.WriteString("</b></u>")
	for i, f := range fields {
		if i == 0 {
			b.WriteByte('\n')
		}
		b.WriteString("\n")
		b.WriteString(f.name)
		b.WriteString(": <i>")
		b.WriteString(tools.EscapeHTML(f.value))
		b.WriteString("</i>")
	}
	return b.String()
}
