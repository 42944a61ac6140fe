package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind discriminates signed token purposes. A token of one kind must
// never verify as another, even if otherwise valid.
type TokenKind string

const (
	TokenKindAuth              TokenKind = "auth"
	TokenKindEmailConfirmation TokenKind = "email_confirmation"
)

// TokenManager signs and verifies compact, typed, expiring tokens.
type TokenManager interface {
	Sign(kind TokenKind, userID uuid.UUID, ttl time.Duration) (string, error)
	// Verify returns the subject user ID. It fails with ErrTokenExpired,
	// ErrTokenMalformed or ErrTokenTypeMismatch.
	Verify(token string, expected TokenKind) (uuid.UUID, error)
}

// TokenPair carries the access/refresh pair returned by auth operations.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
