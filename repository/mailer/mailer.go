// repository/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// Email is one templated message. Sends are best-effort: callers log failures
// and never roll back committed state because of them.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type smtpMailer struct{ cfg SMTPConfig }

func NewSMTP(cfg SMTPConfig) Mailer { return &smtpMailer{cfg: cfg} }

func (m *smtpMailer) Send(ctx context.Context, e Email) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp not configured")
	}
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		e.To, m.cfg.From, e.Subject, e.HTML))
	addr := m.cfg.Host + ":" + m.cfg.Port
	return smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, msg)
}
