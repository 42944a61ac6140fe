package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/dbx"
	"github.com/dtroode/tooodo-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository implements model.SessionStore over a dbx.DBTX handle.
type SessionRepository struct {
	db dbx.DBTX
}

// NewSessionRepository constructs a repository bound to the given handle.
func NewSessionRepository(db dbx.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, session model.Session) (model.Session, error) {
	query := `INSERT INTO sessions (id, token, expires_at, user_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, token, expires_at, user_id`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	var saved model.Session
	err := r.db.QueryRowContext(ctx, query, session.ID, session.Token, session.ExpiresAt, session.UserID).
		Scan(&saved.ID, &saved.Token, &saved.ExpiresAt, &saved.UserID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return saved, nil
}

// GetByToken returns the session holding the given refresh token.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (model.Session, error) {
	query := `SELECT id, token, expires_at, user_id FROM sessions WHERE token = $1 LIMIT 1`

	var session model.Session
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&session.ID, &session.Token, &session.ExpiresAt, &session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by token: %w", err)
	}

	return session, nil
}

// ListByUser returns the user's sessions ordered by expiry ascending with id
// as the deterministic tie-break, so the head of the list is the eviction
// candidate.
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	query := `SELECT id, token, expires_at, user_id FROM sessions
			  WHERE user_id = $1 ORDER BY expires_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by user: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(&session.ID, &session.Token, &session.ExpiresAt, &session.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// Rotate swaps the token and expiry of the session currently holding token,
// mutating the same row. Returns model.ErrNotFound when no session holds
// token.
func (r *SessionRepository) Rotate(ctx context.Context, token, newToken string, newExpiry time.Time) (model.Session, error) {
	query := `UPDATE sessions SET token = $2, expires_at = $3
			  WHERE token = $1
			  RETURNING id, token, expires_at, user_id`

	var session model.Session
	err := r.db.QueryRowContext(ctx, query, token, newToken, newExpiry).
		Scan(&session.ID, &session.Token, &session.ExpiresAt, &session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to rotate session: %w", err)
	}

	return session, nil
}

// Delete removes a session row by id.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
