package services

import (
	"context"
	"crypto/tls"
	"projecttracker/backend/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

const (
	VerificationSubject = "Your Verification Code"
)

// Notifier delivers a plain-text message to a single recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NewNotifier picks SMTP when a mail server is configured and falls back to
// logging the message otherwise.
func NewNotifier(cfg config.MailConfig, logger zerolog.Logger) Notifier {
	if cfg.Server == "" {
		return &LogNotifier{Logger: logger}
	}
	return NewSMTPNotifier(cfg)
}

type SMTPNotifier struct {
	Dialer *gomail.Dialer
	From   string
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseSSL
	if cfg.UseTLS || cfg.UseSSL {
		dialer.TLSConfig = &tls.Config{
			ServerName: cfg.Server,
			MinVersion: tls.VersionTLS12,
		}
	}

	return &SMTPNotifier{
		Dialer: dialer,
		From:   cfg.DefaultSender,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return n.Dialer.DialAndSend(m)
}

type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	n.Logger.Warn().
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("MAIL_SERVER not set, message logged instead of sent")
	return nil
}
