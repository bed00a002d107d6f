package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPMailer delivers password-set links to new accounts. Like the Telegram
// notifier, an unconfigured mailer drops messages so local setups work
// without a relay.
type SMTPMailer struct {
	addr     string
	from     string
	username string
	password string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) SendRecoveryLink(ctx context.Context, email, link string) error {
	if m.addr == "" || m.from == "" {
		zap.L().Warn("smtp relay not configured, recovery link dropped")
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	msg.WriteString("Subject: Defina sua senha de acesso\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Sua conta foi criada. Defina sua senha de acesso pelo link abaixo:\r\n\r\n%s\r\n\r\nO link expira em 1 hora.\r\n", link)

	var auth smtp.Auth
	if m.username != "" {
		host := m.addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}

	if err := m.send(m.addr, auth, m.from, []string{email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}
