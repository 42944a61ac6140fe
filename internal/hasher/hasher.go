// Package hasher digests passwords with a single process-wide salt and a
// fixed one-way hash. The digest format matches the stored
// hex(sha256(plaintext||salt)) rows; comparison is constant-time.
package hasher

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher produces salted password digests.
type Hasher struct {
	salt string
}

// New creates a Hasher with the given process-wide salt.
func New(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Digest returns the hex-encoded salted digest of plaintext.
func (h *Hasher) Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext + h.salt))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether digest was produced from plaintext.
func (h *Hasher) Matches(digest, plaintext string) bool {
	return subtle.ConstantTimeCompare([]byte(digest), []byte(h.Digest(plaintext))) == 1
}
