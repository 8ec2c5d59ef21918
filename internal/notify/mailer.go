package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rogerio-castellano/storefront-crm/internal/config"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends plain SMTP mail. A Mailer without a server is disabled and
// drops every message.
type Mailer struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Server != ""
}

func (m *Mailer) Send(to []string, subject, contentType, body string) error {
	if !m.Enabled() {
		return nil
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"", contentType),
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.cfg.Server, m.cfg.Port)
	var auth smtp.Auth
	if !m.cfg.AuthDisabled {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)
	}
	return m.send(addr, auth, m.cfg.From, to, []byte(msg))
}
