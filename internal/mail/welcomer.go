package mail

import (
	"context"

	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/metrics"
)

// Welcomer composes and sends the welcome email. It satisfies
// subscription.Mailer.
type Welcomer struct {
	sender  Sender
	tpl     *Template
	from    Address
	subject string
	brand   string
}

// NewWelcomer creates a Welcomer using the sender identity and content
// settings from cfg.
func NewWelcomer(sender Sender, tpl *Template, cfg config.MailConfig) *Welcomer {
	return &Welcomer{
		sender:  sender,
		tpl:     tpl,
		from:    Address{Name: cfg.SenderName, Email: cfg.SenderAddress},
		subject: cfg.Subject,
		brand:   cfg.Brand,
	}
}

// SendWelcome renders the body for to and sends it. No retries.
func (w *Welcomer) SendWelcome(ctx context.Context, to string) (string, error) {
	html, err := w.tpl.Render(map[string]interface{}{
		"brand": w.brand,
		"email": to,
	})
	if err != nil {
		return "", err
	}

	id, err := w.sender.Send(ctx, Message{
		From:    w.from,
		To:      to,
		Subject: w.subject,
		HTML:    html,
	})
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.MailSend.WithLabelValues(w.sender.Provider(), result).Inc()
	return id, err
}
