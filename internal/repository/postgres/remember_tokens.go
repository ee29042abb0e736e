package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

// RememberTokenRepository implements port.RememberTokenRepository using
// PostgreSQL. Only hashes are persisted; the raw token never touches the store.
type RememberTokenRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewRememberTokenRepository wires a PostgreSQL-backed token repository.
func NewRememberTokenRepository(pool pgPool) *RememberTokenRepository {
	return &RememberTokenRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new remember token hash.
func (r *RememberTokenRepository) Create(ctx context.Context, token domain.RememberToken) error {
	stmt, args, err := r.builder.Insert("remember_tokens").
		Columns("id", "user_id", "token_hash", "created_at", "expires_at").
		Values(token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert remember token sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert remember token: %w", err)
	}

	return nil
}

// GetByHash retrieves a token by its stored hash.
func (r *RememberTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RememberToken, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "token_hash", "created_at", "expires_at").
		From("remember_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select remember token sql: %w", err)
	}

	var token domain.RememberToken
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan remember token: %w", err)
	}

	return &token, nil
}

// DeleteByHash removes a single token. Missing rows are not an error: logout
// with an already-invalidated cookie should stay silent.
func (r *RememberTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	stmt, args, err := r.builder.Delete("remember_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete remember token sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete remember token: %w", err)
	}

	return nil
}

// DeleteForUser removes every token the user holds.
func (r *RememberTokenRepository) DeleteForUser(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.Delete("remember_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete user tokens sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete user tokens: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// DeleteExpired prunes tokens past their validity window.
func (r *RememberTokenRepository) DeleteExpired(ctx context.Context, reference time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("remember_tokens").
		Where(squirrel.LtOrEq{"expires_at": reference}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune tokens sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("prune remember tokens: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

var _ port.RememberTokenRepository = (*RememberTokenRepository)(nil)
