// Package mail implements the confirmation mailer collaborators.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dtroode/tooodo-server/internal/config"
	"github.com/dtroode/tooodo-server/internal/model"
)

var _ model.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends the HTML confirmation message over SMTP with STARTTLS.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{host: cfg.Host, port: cfg.Port, user: cfg.User, pass: cfg.Pass}
}

// SendConfirmation delivers the verification link to the recipient. The
// message asks the recipient to follow the link or ignore the email.
func (m *SMTPMailer) SendConfirmation(ctx context.Context, recipientEmail, recipientName, link string) error {
	msg := buildConfirmationMessage(m.user, recipientEmail, recipientName, link)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.user, []string{recipientEmail}, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func buildConfirmationMessage(from, to, name, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Confirm your email at tooodo\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "<div><h1>Confirm your email at tooodo, %s</h1>", name)
	b.WriteString(`<p style="font-size: 16px; line-height: 1.2">Someone used your address to register a tooodo account. If it was you, follow the link below to confirm it. Otherwise ignore this message.</p>`)
	fmt.Fprintf(&b, `<a style="font-size: 16px; line-height: 1.2" href=%q target="_blank">%s</a></div>`, link, link)
	return []byte(b.String())
}
