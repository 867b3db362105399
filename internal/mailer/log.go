package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes login codes to the log instead of sending mail. Dev and
// test use only.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

// SendLoginCode logs the code that would have been emailed.
func (m *LogMailer) SendLoginCode(_ context.Context, email, code string) error {
	m.log.Info().Str("email", email).Str("code", code).Msg("Login code (not sent, log-only mailer)")
	return nil
}
