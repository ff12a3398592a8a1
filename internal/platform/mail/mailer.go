// Package mail provides outgoing email delivery over SMTP.
package mail

import (
	"context"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a plain-text email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP server using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP server.
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger.With(slog.String("component", "smtp_mailer")),
	}
}

// Send implements Mailer. The context is accepted for interface symmetry;
// gomail's dialer manages its own connection timeouts.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", slog.String("error", err.Error()))
		return err
	}

	m.logger.Debug("email sent", slog.String("subject", subject))
	return nil
}

// LogMailer is a no-op mailer used when SMTP is not configured. It logs the
// message instead of delivering it, which keeps local development and tests
// independent of a mail server.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer by logging the message.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail delivery disabled, logging instead",
		slog.String("to", to),
		slog.String("subject", subject))
	return nil
}
