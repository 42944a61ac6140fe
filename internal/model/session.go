package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxSessionsPerUser caps concurrent refresh sessions per user. The cap is
// soft: it is enforced at creation time, not by a background sweep.
const MaxSessionsPerUser = 5

// SessionTokenLength is the length of the opaque refresh token string.
const SessionTokenLength = 32

// SessionStore defines persistence operations for refresh sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByToken(ctx context.Context, token string) (Session, error)
	// ListByUser returns sessions ordered by expiry ascending, then by id,
	// so the first element is always the eviction candidate.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	// Rotate replaces the token and expiry of the session row currently
	// holding token, keeping the same row. Returns ErrNotFound when no
	// session holds token.
	Rotate(ctx context.Context, token, newToken string, newExpiry time.Time) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Session represents a persisted refresh session. The token is an opaque
// random alphanumeric string; expiry is refreshed in place on rotation.
type Session struct {
	ID        uuid.UUID
	Token     string
	ExpiresAt time.Time
	UserID    uuid.UUID
}

// Expired reports whether the session expiry has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
