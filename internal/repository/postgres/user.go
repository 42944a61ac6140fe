package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/dbx"
	"github.com/dtroode/tooodo-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository implements model.UserStore over a dbx.DBTX handle, so the
// same code runs against the pool or inside a transaction.
type UserRepository struct {
	db dbx.DBTX
}

// NewUserRepository constructs a repository bound to the given handle.
func NewUserRepository(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, is_email_verified, is_deleted, created_at`

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.IsEmailVerified, &user.IsDeleted, &user.CreatedAt,
	)
	return user, err
}

// GetByEmail returns the user with the given email. Soft-deleted users are
// treated as absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND NOT is_deleted LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID returns the user with the given id. Soft-deleted users are treated
// as absent.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND NOT is_deleted`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, name, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	saved, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

// SetEmailVerified flips the email verification flag.
func (r *UserRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `UPDATE users SET is_email_verified = TRUE WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to set email verified: %w", err)
	}

	return user, nil
}

// UpdateName updates the display name.
func (r *UserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error) {
	query := `UPDATE users SET name = $2 WHERE id = $1 AND NOT is_deleted RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user name: %w", err)
	}

	return user, nil
}

// SoftDelete hides the user from lookups while keeping the row.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `UPDATE users SET is_deleted = TRUE WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to soft delete user: %w", err)
	}

	return user, nil
}

// HardDelete removes the row entirely, freeing the email for re-registration.
func (r *UserRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to hard delete user: %w", err)
	}
	return nil
}
