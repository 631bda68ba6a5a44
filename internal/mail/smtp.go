package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/pkg/logger"
	"gopkg.in/gomail.v2"
)

// dialer is the part of *gomail.Dialer the sender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail through an authenticated SMTP relay. One connection
// is opened per message.
type SMTPSender struct {
	dialer dialer
	host   string
}

// NewSMTPSender creates a sender for the configured relay.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	logger.Info("initializing smtp sender", "host", cfg.Host, "port", cfg.Port, "user", cfg.User)
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		logger.Warn("smtp TLS verification disabled", "host", cfg.Host)
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host}
	}
	return &SMTPSender{dialer: d, host: cfg.Host}
}

// Provider implements Sender.
func (s *SMTPSender) Provider() string { return config.ProviderSMTP }

// Send builds the MIME message and hands it to the relay. The returned id is
// the Message-ID header set on the message.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), msg.From.domain())

	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From.Email, msg.From.Name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp %s: %w", s.host, err)
	}
	return messageID, nil
}
