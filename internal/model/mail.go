package model

import "context"

// Mailer sends the out-of-band email confirmation message. Implementations
// are best-effort: callers log failures and never roll back on them.
type Mailer interface {
	SendConfirmation(ctx context.Context, recipientEmail, recipientName, link string) error
}
