package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/gradely/gradebook-backend/internal/config"
)

// SMTPMailer sends login codes through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer against the configured SMTP relay.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.SMTPFrom,
	}
}

// SendLoginCode sends the 8-digit code to the address.
func (m *SMTPMailer) SendLoginCode(ctx context.Context, email, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your login code\r\n\r\nYour login code is %s. It expires in 10 minutes.\r\n",
		m.from, email, code,
	)
	if err := smtp.SendMail(m.addr, nil, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
