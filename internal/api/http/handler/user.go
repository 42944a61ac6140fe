package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

// UserService defines profile operations for authenticated users.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) (model.User, error)
}

// User handles HTTP endpoints for the authenticated user's profile.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{userService: userService, contextManager: contextManager, logger: logger}
}

type userResponse struct {
	User userView `json:"user"`
}

// Get returns the authenticated user.
func (h *User) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, model.ErrInternal)
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("User handler: get failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: newUserView(user)})
}

type updateUserRequest struct {
	Name string `json:"name"`
}

// Update changes the authenticated user's display name.
func (h *User) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, model.ErrInternal)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	user, err := h.userService.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		h.logger.Error("User handler: update failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: newUserView(user)})
}

// Delete soft-deletes the authenticated user.
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, model.ErrInternal)
		return
	}

	user, err := h.userService.Delete(r.Context(), userID)
	if err != nil {
		h.logger.Error("User handler: delete failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: newUserView(user)})
}
