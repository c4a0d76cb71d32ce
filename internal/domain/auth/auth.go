// Package auth authenticates back office operators and tracks their
// sessions. Passwords and session tokens are stored only as HMAC-SHA256
// digests keyed with a server-side pepper.
package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for authentication.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Operator is a back office user.
type Operator struct {
	ID           string
	Username     string
	PasswordHash string
	Scopes       []string
}

// Session is an authenticated login. TokenHash is the digest of the token
// handed to the client.
type Session struct {
	TokenHash  string
	OperatorID string
	ExpiresAt  time.Time
}

// Repository provides operator and session storage.
type Repository interface {
	// FindOperator returns ErrInvalidCredentials for an unknown username.
	FindOperator(ctx context.Context, username string) (*Operator, error)
	CreateSession(ctx context.Context, s Session) error
	// FindSession returns ErrSessionNotFound for an unknown digest.
	FindSession(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}
