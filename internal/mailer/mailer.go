// Package mailer sends templated notifications. The workflow only sees
// the Mailer interface; SMTP is one transport behind it.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
)

// Message is an outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages to a recipient address.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages over plain SMTP with auth.
type SMTPMailer struct {
	addr   string
	host   string
	from   string
	user   string
	pass   string
	logger *zap.Logger
}

// NewSMTPMailer builds the mailer from configuration.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   net.JoinHostPort(cfg.Host, cfg.Port),
		host:   cfg.Host,
		from:   cfg.From,
		user:   cfg.Username,
		pass:   cfg.Password,
		logger: logger,
	}
}

// Send delivers the message. The context is honored up to connection setup;
// smtp.SendMail itself does not accept one, so the server-side conversation
// runs to completion once started.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	payload := buildMessage(m.from, msg)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{msg.To}, payload); err != nil {
		m.logger.Error("mail delivery failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	m.logger.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func buildMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
