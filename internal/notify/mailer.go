package notify

import (
	"context"
	"errors"
	"fmt"

	"carcare/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Message is one outbound email with both a plain-text and an HTML body.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message. Implementations must honour ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over SMTP using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	brand  string
}

// NewSMTPSender builds a sender from the mail section of the config.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		brand:  cfg.BrandName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	m := gomail.NewMessage()
	if s.brand != "" {
		m.SetAddressHeader("From", s.from, s.brand)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	// gomail has no context support; the dial keeps running after ctx expires
	// but the caller is released.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopSender only logs. Used when SMTP_HOST is not configured.
type NoopSender struct {
	logger zerolog.Logger
}

func NewNoopSender(logger zerolog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.logger.Debug().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email disabled, message not sent")
	return nil
}

// NewSender picks SMTP when configured and the noop sender otherwise.
func NewSender(cfg config.MailConfig, logger zerolog.Logger) Sender {
	if !cfg.Enabled() {
		logger.Warn().Msg("SMTP_HOST not set, confirmation emails are disabled")
		return NewNoopSender(logger)
	}
	return NewSMTPSender(cfg)
}
