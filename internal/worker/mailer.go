package worker

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/taskfleet/taskfleet/internal/config"
)

// Mailer delivers a rendered email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer implements Mailer over plain SMTP with PlainAuth.
// STARTTLS is negotiated automatically when the server advertises it.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for the server in cfg.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		auth: smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
	}
}

// Send implements Mailer.Send.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := buildMessage(m.from, to, subject, htmlBody)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n",
		from, to, subject, htmlBody)
	return []byte(msg)
}
