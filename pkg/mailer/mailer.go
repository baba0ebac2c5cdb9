// Package mailer sends the outbound side-channel messages: verification
// links, OTP codes, order confirmations, return confirmations and delivery
// notifications.
package mailer

import (
	"context"

	"shopline/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP sender when a host is configured, otherwise the log
// sender used in development.
func New(cfg utils.EmailConfig, log *zap.Logger) Sender {
	if cfg.Host == "" {
		return &LogSender{log: log}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}

// LogSender writes messages to the log instead of SMTP. OTP codes show up in
// the console the same way during development.
type LogSender struct {
	log *zap.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("Outbound mail (log sender)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
