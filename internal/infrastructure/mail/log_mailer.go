// Package mail delivers outbound email. LogMailer writes messages to the
// structured log instead of sending them, for development and for
// deployments where an external relay picks mail up from the log stream.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pyconafrica/registration/internal/core/ports"
)

// LogMailer implements ports.Mailer by logging each message.
type LogMailer struct {
	from string
	log  zerolog.Logger
}

func NewLogMailer(from string, log zerolog.Logger) *LogMailer {
	return &LogMailer{from: from, log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.log.Info().
		Str("from", m.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("outbound email")
	return nil
}
