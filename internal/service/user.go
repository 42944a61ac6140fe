package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

// User provides profile operations for authenticated users.
type User struct {
	uow    model.UnitOfWork
	logger *logger.Logger
}

// NewUser creates the user service.
func NewUser(uow model.UnitOfWork, logger *logger.Logger) *User {
	return &User{uow: uow, logger: logger}
}

// Get returns the user by id.
func (u *User) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User

	err := u.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		var err error
		user, err = s.Users().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrUserNotFound
			}
			return fmt.Errorf("failed to get user by id: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// UpdateName changes the display name.
func (u *User) UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error) {
	var user model.User

	err := u.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		if _, err := s.Users().GetByID(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrUserNotFound
			}
			return fmt.Errorf("failed to get user by id: %w", err)
		}

		var err error
		user, err = s.Users().UpdateName(ctx, id, name)
		if err != nil {
			return fmt.Errorf("failed to update user name: %w", err)
		}
		return nil
	})
	if err != nil {
		u.logger.Error("User service: name update failed",
			"user_id", id,
			"error", err.Error())
		return model.User{}, err
	}

	u.logger.Info("User service: name updated", "user_id", id)
	return user, nil
}

// Delete soft-deletes the user, hiding it from lookups.
func (u *User) Delete(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User

	err := u.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		if _, err := s.Users().GetByID(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrUserNotFound
			}
			return fmt.Errorf("failed to get user by id: %w", err)
		}

		var err error
		user, err = s.Users().SoftDelete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to soft delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		u.logger.Error("User service: delete failed",
			"user_id", id,
			"error", err.Error())
		return model.User{}, err
	}

	u.logger.Info("User service: user deleted", "user_id", id)
	return user, nil
}
