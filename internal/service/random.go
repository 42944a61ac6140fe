package service

import (
	"crypto/rand"
	"fmt"

	"github.com/dtroode/tooodo-server/internal/model"
)

const sessionTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newSessionToken returns a random fixed-length alphanumeric string used as
// an opaque refresh token.
func newSessionToken() (string, error) {
	buf := make([]byte, model.SessionTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	for i, b := range buf {
		buf[i] = sessionTokenAlphabet[int(b)%len(sessionTokenAlphabet)]
	}
	return string(buf), nil
}
