package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/tooodo-server/internal/model"
)

// Claims represents JWT claims with token kind and subject user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Kind   string    `json:"typ"`
}

// JWT implements model.TokenManager backed by a symmetric HMAC key. A single
// process-wide secret and one fixed algorithm are used; there is no key
// rotation.
type JWT struct {
	secretKey string
	method    jwt.SigningMethod
}

// NewJWT creates a token manager with the provided secret key and algorithm
// name. Only HMAC algorithms are accepted.
func NewJWT(secretKey, algorithm string) (*JWT, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}
	return &JWT{secretKey: secretKey, method: method}, nil
}

var _ model.TokenManager = (*JWT)(nil)

// Sign creates a signed token of the given kind for userID, expiring after
// ttl.
func (j *JWT) Sign(kind model.TokenKind, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Kind:   string(kind),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Verify validates the signature and expiry of tokenString and checks the
// embedded kind against expected. Failures are classified as
// model.ErrTokenExpired, model.ErrTokenMalformed or
// model.ErrTokenTypeMismatch.
func (j *JWT) Verify(tokenString string, expected model.TokenKind) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrTokenExpired
		}
		return uuid.Nil, model.ErrTokenMalformed
	}
	if !token.Valid {
		return uuid.Nil, model.ErrTokenMalformed
	}
	if claims.Kind == "" {
		return uuid.Nil, model.ErrTokenMalformed
	}
	if claims.Kind != string(expected) {
		return uuid.Nil, model.ErrTokenTypeMismatch
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrTokenMalformed
	}
	return claims.UserID, nil
}
