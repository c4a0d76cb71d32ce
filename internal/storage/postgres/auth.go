package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/auth"
)

const (
	findOperatorSQL = `SELECT id::text, username, password_hash, scopes
		FROM operators WHERE username = $1 AND active = TRUE`

	upsertOperatorSQL = `INSERT INTO operators (id, username, password_hash, scopes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, scopes = EXCLUDED.scopes`

	createSessionSQL = `INSERT INTO sessions (token_hash, operator_id, expires_at) VALUES ($1, $2, $3)`

	findSessionSQL = `SELECT token_hash, operator_id::text, expires_at FROM sessions WHERE token_hash = $1`

	deleteSessionSQL = `DELETE FROM sessions WHERE token_hash = $1`

	purgeSessionsSQL = `DELETE FROM sessions WHERE expires_at <= now()`
)

var _ auth.Repository = (*AuthRepository)(nil)

// AuthRepository stores operators and their sessions.
type AuthRepository struct {
	pool *pgxpool.Pool
}

// NewAuthRepository returns an AuthRepository that uses the given pool.
func NewAuthRepository(pool *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{pool: pool}
}

// FindOperator looks up an active operator by username.
func (r *AuthRepository) FindOperator(ctx context.Context, username string) (*auth.Operator, error) {
	var op auth.Operator
	err := r.pool.QueryRow(ctx, findOperatorSQL, username).Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.Scopes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find operator")
	}
	return &op, nil
}

// SaveOperator creates the operator or replaces the password hash and
// scopes of an existing one with the same username.
func (r *AuthRepository) SaveOperator(ctx context.Context, op auth.Operator) error {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if op.Scopes == nil {
		op.Scopes = []string{}
	}
	if _, err := r.pool.Exec(ctx, upsertOperatorSQL, op.ID, op.Username, op.PasswordHash, op.Scopes); err != nil {
		return errors.Wrapf(err, "save operator %q", op.Username)
	}
	return nil
}

func (r *AuthRepository) CreateSession(ctx context.Context, s auth.Session) error {
	if _, err := r.pool.Exec(ctx, createSessionSQL, s.TokenHash, s.OperatorID, s.ExpiresAt); err != nil {
		return errors.Wrap(err, "create session")
	}
	return nil
}

func (r *AuthRepository) FindSession(ctx context.Context, tokenHash string) (*auth.Session, error) {
	var s auth.Session
	err := r.pool.QueryRow(ctx, findSessionSQL, tokenHash).Scan(&s.TokenHash, &s.OperatorID, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "find session")
	}
	return &s, nil
}

func (r *AuthRepository) DeleteSession(ctx context.Context, tokenHash string) error {
	tag, err := r.pool.Exec(ctx, deleteSessionSQL, tokenHash)
	if err != nil {
		return errors.Wrap(err, "delete session")
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// PurgeExpired removes expired sessions and reports how many were deleted.
func (r *AuthRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, purgeSessionsSQL)
	if err != nil {
		return 0, errors.Wrap(err, "purge sessions")
	}
	return tag.RowsAffected(), nil
}
