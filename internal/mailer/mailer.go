// Package mailer sends transactional email through SMTP or SendGrid.
package mailer

import (
	"context"
	"fmt"

	"greenspark-backend/internal/config"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the Mailer selected by cfg.MailProvider.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case config.MailSMTP:
		return NewSMTP(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			From:     cfg.MailFrom,
		}), nil
	case config.MailSendGrid:
		return NewSendGrid(cfg.SendGridAPIKey, cfg.MailFrom, "GreenSpark"), nil
	case config.MailNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

// Nop drops every message.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }
