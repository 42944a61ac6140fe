package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users. Lookups must treat
// soft-deleted users as absent.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	SetEmailVerified(ctx context.Context, id uuid.UUID) (User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (User, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user account.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	PasswordHash    string
	IsEmailVerified bool
	IsDeleted       bool
	CreatedAt       time.Time
}
