package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

// Windows carries the expiry durations per token purpose.
type Windows struct {
	Access  time.Duration
	Refresh time.Duration
	Email   time.Duration
}

// Auth composes the token codec, session store, hasher and mailer into the
// sign-up, sign-in, refresh and email-verification flows.
type Auth struct {
	uow     model.UnitOfWork
	tokens  model.TokenManager
	hasher  model.Hasher
	mailer  model.Mailer
	windows Windows
	baseURL string
	logger  *logger.Logger

	now func() time.Time
}

// NewAuth creates the auth service.
func NewAuth(
	uow model.UnitOfWork,
	tokens model.TokenManager,
	hasher model.Hasher,
	mailer model.Mailer,
	windows Windows,
	baseURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		uow:     uow,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		windows: windows,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// issueSession enforces the session cap and persists a new refresh session.
// When the user already holds the maximum number of sessions the
// earliest-expiring one is evicted first; ListByUser orders candidates
// deterministically.
func (a *Auth) issueSession(ctx context.Context, s model.Stores, userID uuid.UUID) (model.Session, error) {
	sessions, err := s.Sessions().ListByUser(ctx, userID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) >= model.MaxSessionsPerUser {
		evicted := sessions[0]
		if err := s.Sessions().Delete(ctx, evicted.ID); err != nil {
			return model.Session{}, fmt.Errorf("failed to evict session: %w", err)
		}
		a.logger.Info("Auth service: evicted earliest-expiring session",
			"user_id", userID,
			"session_id", evicted.ID)
	}

	token, err := newSessionToken()
	if err != nil {
		return model.Session{}, err
	}

	session, err := s.Sessions().Create(ctx, model.Session{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: a.now().Add(a.windows.Refresh),
		UserID:    userID,
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Register creates a new unverified user, issues a refresh session and an
// access token, and dispatches the confirmation email. A verified user with
// the same email conflicts; an unverified one is purged to permit
// re-registration. The user and session rows are committed before the email
// side effect; a send failure is logged and not surfaced.
func (a *Auth) Register(ctx context.Context, email, name, password string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting registration", "email", email)

	var user model.User
	var session model.Session

	err := a.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		existing, err := s.Users().GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to get user by email: %w", err)
		}

		if err == nil {
			if existing.IsEmailVerified {
				return model.ErrEmailInUse
			}
			// Stale unverified registration: purge it so the email can be
			// claimed again.
			if err := s.Users().HardDelete(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to purge unverified user: %w", err)
			}
		}

		user, err = s.Users().Create(ctx, model.User{
			ID:           uuid.New(),
			Email:        email,
			Name:         name,
			PasswordHash: a.hasher.Digest(password),
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		session, err = a.issueSession(ctx, s, user.ID)
		return err
	})
	if err != nil {
		a.logger.Error("Auth service: registration failed",
			"email", email,
			"error", err.Error())
		return model.TokenPair{}, err
	}

	accessToken, err := a.tokens.Sign(model.TokenKindAuth, user.ID, a.windows.Access)
	if err != nil {
		a.logger.Error("Auth service: failed to sign access token",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	a.sendConfirmation(ctx, user)

	a.logger.Info("Auth service: registration completed",
		"email", email,
		"user_id", user.ID)

	return model.TokenPair{AccessToken: accessToken, RefreshToken: session.Token}, nil
}

// sendConfirmation signs an email-confirmation token, wraps it in a
// verification link and dispatches it best-effort.
func (a *Auth) sendConfirmation(ctx context.Context, user model.User) {
	confirmation, err := a.tokens.Sign(model.TokenKindEmailConfirmation, user.ID, a.windows.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to sign confirmation token",
			"user_id", user.ID,
			"error", err.Error())
		return
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", a.baseURL, url.QueryEscape(confirmation))
	if err := a.mailer.SendConfirmation(ctx, user.Email, user.Name, link); err != nil {
		a.logger.Error("Auth service: failed to send confirmation email",
			"user_id", user.ID,
			"email", user.Email,
			"error", err.Error())
	}
}

// VerifyEmail decodes a confirmation token and flips the verification flag.
// An absent or already-verified user fails with ErrInternal; verifying twice
// with the same token is an error, not a no-op.
func (a *Auth) VerifyEmail(ctx context.Context, tokenString string) error {
	a.logger.Debug("Auth service: verifying email")

	userID, err := a.tokens.Verify(tokenString, model.TokenKindEmailConfirmation)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return model.ErrEmailConfirmationExpired
		}
		return model.ErrInternal
	}

	err = a.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		user, err := s.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInternal
			}
			return fmt.Errorf("failed to get user by id: %w", err)
		}

		if user.IsEmailVerified {
			return model.ErrInternal
		}

		if _, err := s.Users().SetEmailVerified(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to set email verified: %w", err)
		}
		return nil
	})
	if err != nil {
		a.logger.Error("Auth service: email verification failed",
			"user_id", userID,
			"error", err.Error())
		return err
	}

	a.logger.Info("Auth service: email verified", "user_id", userID)
	return nil
}

// Authenticate checks credentials and issues a fresh session and access
// token. Unknown email and wrong password both fail with
// ErrInvalidCredentials; credentials are verified before any session row is
// written. A verified email is not required to log in.
func (a *Auth) Authenticate(ctx context.Context, email, password string) (model.User, model.TokenPair, error) {
	a.logger.Debug("Auth service: authenticating user", "email", email)

	var user model.User
	var session model.Session

	err := a.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		var err error
		user, err = s.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInvalidCredentials
			}
			return fmt.Errorf("failed to get user by email: %w", err)
		}

		if !a.hasher.Matches(user.PasswordHash, password) {
			return model.ErrInvalidCredentials
		}

		session, err = a.issueSession(ctx, s, user.ID)
		return err
	})
	if err != nil {
		a.logger.Error("Auth service: authentication failed",
			"email", email,
			"error", err.Error())
		return model.User{}, model.TokenPair{}, err
	}

	accessToken, err := a.tokens.Sign(model.TokenKindAuth, user.ID, a.windows.Access)
	if err != nil {
		return model.User{}, model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	a.logger.Info("Auth service: authentication completed",
		"email", email,
		"user_id", user.ID)

	return user, model.TokenPair{AccessToken: accessToken, RefreshToken: session.Token}, nil
}

// RefreshTokens exchanges a refresh token for a new access/refresh pair. The
// session row is rotated in place, so the presented token is invalidated by
// the exchange. Expired sessions are purged lazily here: the delete commits,
// the call fails with ErrSessionExpired, and a retry with the same token gets
// ErrInvalidRefreshToken. Unknown tokens fail with ErrInvalidRefreshToken.
func (a *Auth) RefreshTokens(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: refreshing tokens")

	var session model.Session
	var expired bool

	err := a.uow.Do(ctx, func(ctx context.Context, s model.Stores) error {
		found, err := s.Sessions().GetByToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInvalidRefreshToken
			}
			return fmt.Errorf("failed to get session by token: %w", err)
		}

		if found.Expired(a.now()) {
			// The purge must commit, so the closure returns nil here and the
			// failure is surfaced after the transaction boundary.
			expired = true
			if err := s.Sessions().Delete(ctx, found.ID); err != nil {
				return fmt.Errorf("failed to delete expired session: %w", err)
			}
			return nil
		}

		newToken, err := newSessionToken()
		if err != nil {
			return err
		}

		session, err = s.Sessions().Rotate(ctx, refreshToken, newToken, a.now().Add(a.windows.Refresh))
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInvalidRefreshToken
			}
			return fmt.Errorf("failed to rotate session: %w", err)
		}
		return nil
	})
	if err != nil {
		a.logger.Error("Auth service: token refresh failed", "error", err.Error())
		return model.TokenPair{}, err
	}
	if expired {
		a.logger.Error("Auth service: token refresh failed", "error", model.ErrSessionExpired.Error())
		return model.TokenPair{}, model.ErrSessionExpired
	}

	accessToken, err := a.tokens.Sign(model.TokenKindAuth, session.UserID, a.windows.Access)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	a.logger.Info("Auth service: tokens refreshed",
		"user_id", session.UserID,
		"session_id", session.ID)

	return model.TokenPair{AccessToken: accessToken, RefreshToken: session.Token}, nil
}

// GetUserID resolves the subject of a bearer access token. Expired tokens
// fail with ErrAccessTokenExpired.
func (a *Auth) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	userID, err := a.tokens.Verify(accessToken, model.TokenKindAuth)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return uuid.Nil, model.ErrAccessTokenExpired
		}
		return uuid.Nil, err
	}
	return userID, nil
}
