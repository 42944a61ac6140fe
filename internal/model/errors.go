package model

import "errors"

// ErrNotFound is returned by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Domain errors surfaced by the auth service. Handlers translate these to
// transport status codes; nothing else leaks to the caller.
var (
	ErrEmailInUse               = errors.New("email is already in use")
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidCredentials       = errors.New("incorrect email or password")
	ErrInvalidRefreshToken      = errors.New("invalid refresh token")
	ErrSessionExpired           = errors.New("session expired")
	ErrAccessTokenExpired       = errors.New("access token expired")
	ErrEmailConfirmationExpired = errors.New("email confirmation expired")
	ErrInternal                 = errors.New("internal server error")
)

// Token verification errors. The codec classifies failures precisely so
// callers can tell "log in again" from "reject as tampered".
var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenTypeMismatch = errors.New("token type mismatch")
)
