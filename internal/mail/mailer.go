package mail

import (
	"context"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single plain-text email. A failure must surface as an error;
// there is no fail-silent mode in the production configuration.
type Mailer interface {
	Send(ctx context.Context, subject, body, from string, to []string) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for the given SMTP relay.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send delivers one message. The context is honored up front; the SMTP dial
// itself is bounded by the dialer's own timeout.
func (m *SMTPMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer writes messages to the log instead of delivering them. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	log *slog.Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a log-only mailer.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	m.log.InfoContext(ctx, "mail (log only)", "subject", subject, "from", from, "to", to, "body", body)
	return nil
}
