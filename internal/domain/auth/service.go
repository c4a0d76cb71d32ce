package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 8 * time.Hour

// Service logs operators in and out and resolves session tokens.
type Service struct {
	repo   Repository
	pepper []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates an auth Service. A non-positive ttl selects
// DefaultSessionTTL.
func NewService(repo Repository, pepper []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		repo:   repo,
		pepper: pepper,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Digest computes the hex HMAC-SHA256 of secret under the pepper.
func (s *Service) Digest(secret string) string {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(secret))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify compares secret against a stored hex digest in constant time.
func (s *Service) verify(secret, stored string) bool {
	want, err := hex.DecodeString(stored)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(secret))
	return subtle.ConstantTimeCompare(mac.Sum(nil), want) == 1
}

// Login checks the credentials and opens a session. It returns the opaque
// token and its expiry.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	op, err := s.repo.FindOperator(ctx, username)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, errors.Wrap(err, "find operator")
	}
	if !s.verify(password, op.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	expires := s.now().Add(s.ttl)
	if err := s.repo.CreateSession(ctx, Session{
		TokenHash:  s.Digest(token),
		OperatorID: op.ID,
		ExpiresAt:  expires,
	}); err != nil {
		return "", time.Time{}, errors.Wrap(err, "create session")
	}
	return token, expires, nil
}

// Authenticate resolves a token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.repo.FindSession(ctx, s.Digest(token))
	if err != nil {
		return nil, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout ends the session of token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, s.Digest(token)); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return errors.Wrap(err, "delete session")
	}
	return nil
}
