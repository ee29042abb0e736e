package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// LoginAttemptRepository is the append-only ledger behind the lockout policy.
type LoginAttemptRepository interface {
	Record(ctx context.Context, attempt domain.LoginAttempt) error
	CountRecentFailures(ctx context.Context, email string, window time.Duration, reference time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
