// Package mail sends transactional email (confirmation and reset links).
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is the outbound envelope.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Result reports which recipients the upstream server accepted.
type Result struct {
	Accepted []string
}

// Mailer delivers a message and reports the delivery outcome.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// SMTPConfig carries the credentials for the outbound mail account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a plain SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.To == "" {
		return Result{}, fmt.Errorf("mail: recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return Result{}, fmt.Errorf("mail: send: %w", err)
	}
	return Result{Accepted: []string{msg.To}}, nil
}
