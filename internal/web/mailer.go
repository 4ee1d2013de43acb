package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/praveen44/portfolio/internal/config"
)

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Validation errors are shown to the visitor as is.
var (
	errMissingField = errors.New("Please fill in every field.")
	errNameNewline  = errors.New("Name must be a single line.")
	errBadEmail     = errors.New("Please enter a valid email address.")
)

// Validate checks the submission before it is mailed.
func (m ContactMessage) Validate() error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return errMissingField
	}
	if strings.ContainsAny(m.Name, "\r\n") {
		return errNameNewline
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != m.Email {
		return errBadEmail
	}
	return nil
}

// Mailer delivers contact messages.
type Mailer interface {
	Send(msg ContactMessage) error
}

// SMTPMailer sends contact messages through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host   string
	port   string
	user   string
	pass   string
	to     string
	logger *slog.Logger

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for cfg, or nil when credentials are missing.
func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if !cfg.Enabled() {
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	to := cfg.To
	if to == "" {
		to = cfg.User
	}
	return &SMTPMailer{
		host:   cfg.Host,
		port:   cfg.Port,
		user:   cfg.User,
		pass:   cfg.Pass,
		to:     to,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send mails msg to the configured recipient.
func (m *SMTPMailer) Send(msg ContactMessage) error {
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := m.send(m.host+":"+m.port, auth, m.user, []string{m.to}, m.compose(msg)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	m.logger.Info("contact email sent", "from", msg.Email)
	return nil
}

func (m *SMTPMailer) compose(msg ContactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + m.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.user + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
