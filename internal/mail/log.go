package mail

import (
	"context"

	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

var _ model.Mailer = (*LogMailer)(nil)

// LogMailer logs the verification link instead of sending it. Used in
// development when no SMTP host is configured.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer creates the log-only mailer.
func NewLogMailer(logger *logger.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendConfirmation logs the link that would have been emailed.
func (m *LogMailer) SendConfirmation(ctx context.Context, recipientEmail, recipientName, link string) error {
	m.logger.Info("email confirmation link issued",
		"email", recipientEmail,
		"name", recipientName,
		"link", link)
	return nil
}
