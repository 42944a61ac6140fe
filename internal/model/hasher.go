package model

// Hasher digests passwords and checks candidates against stored digests.
type Hasher interface {
	Digest(plaintext string) string
	Matches(digest, plaintext string) bool
}
