// Package sharelink builds and validates the shareable signing links. The
// link is the recipient's only credential (a deliberate trust boundary),
// so the token is made unforgeable and time-bound, but it authenticates
// nothing beyond possession.
package sharelink

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid sign link token")

type Builder struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewBuilder(secret, baseURL string, ttl time.Duration) *Builder {
	return &Builder{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
	}
}

// Token produces a signed token whose subject is the record id.
func (b *Builder) Token(id uuid.UUID) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("signing link token: %w", err)
	}

	return token, nil
}

// SignURL returns the full shareable URL for a record.
func (b *Builder) SignURL(id uuid.UUID) (string, error) {
	token, err := b.Token(id)
	if err != nil {
		return "", err
	}

	return b.baseURL + "/sign/" + token, nil
}

// Parse validates a token and returns the record id it carries. Any
// failure collapses into ErrInvalidToken so callers cannot distinguish a
// tampered token from an expired one.
func (b *Builder) Parse(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return b.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
