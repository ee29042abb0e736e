package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
)

// LoginAttemptRepository implements the append-only attempt ledger on
// PostgreSQL. The lockout decision is a sliding-window count over failures.
type LoginAttemptRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewLoginAttemptRepository wires a PostgreSQL-backed attempt ledger.
func NewLoginAttemptRepository(pool pgPool) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record appends an attempt event. Attempts are never updated or removed
// outside of retention pruning.
func (r *LoginAttemptRepository) Record(ctx context.Context, attempt domain.LoginAttempt) error {
	stmt, args, err := r.builder.Insert("login_attempts").
		Columns("id", "email", "succeeded", "ip", "created_at").
		Values(attempt.ID, attempt.Email, attempt.Succeeded, attempt.IP, attempt.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login attempt sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}

	return nil
}

// CountRecentFailures counts failed attempts for the email within the trailing
// window ending at the reference time.
func (r *LoginAttemptRepository) CountRecentFailures(ctx context.Context, email string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive")
	}

	stmt, args, err := r.builder.Select("COUNT(*)").
		From("login_attempts").
		Where(squirrel.Eq{"email": email, "succeeded": false}).
		Where(squirrel.Gt{"created_at": reference.Add(-window)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count failures sql: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan failure count: %w", err)
	}

	return int(count), nil
}

// DeleteOlderThan prunes attempts recorded before the cutoff. Retention only;
// the lockout window never depends on pruning having run.
func (r *LoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("login_attempts").
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune attempts sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("prune login attempts: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

var _ port.LoginAttemptRepository = (*LoginAttemptRepository)(nil)
