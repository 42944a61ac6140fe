package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

// AuthService defines sign-up, sign-in, refresh and verification operations.
type AuthService interface {
	Register(ctx context.Context, email, name, password string) (model.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	Authenticate(ctx context.Context, email, password string) (model.User, model.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	refreshTTL  time.Duration
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, refreshTTL time.Duration, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, refreshTTL: refreshTTL, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userView struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func newUserView(u model.User) userView {
	return userView{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// SignUp registers a new user. The refresh token is set as an httponly
// cookie, the access token is returned in the body.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid email"})
		return
	}

	pair, err := h.authService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign-up failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.refreshTTL)
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: pair.AccessToken})
}

// Verify confirms an email address from the token query parameter.
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "token is required"})
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		h.logger.Error("Auth handler: verification failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User        userView `json:"user"`
	AccessToken string   `json:"access_token"`
}

// SignIn authenticates credentials and issues a fresh token pair.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	user, pair, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign-in failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.refreshTTL)
	writeJSON(w, http.StatusOK, signInResponse{
		User:        newUserView(user),
		AccessToken: pair.AccessToken,
	})
}

// Refresh rotates the refresh session identified by the refresh_token cookie
// and returns a new access token.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		handleError(w, model.ErrInvalidRefreshToken)
		return
	}

	pair, err := h.authService.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("Auth handler: refresh failed", "error", err.Error())
		handleError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.refreshTTL)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken})
}
