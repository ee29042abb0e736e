package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// RememberTokenRepository persists durable login tokens. Tokens are stored
// hashed; lookups always go through the hash of the presented value.
type RememberTokenRepository interface {
	Create(ctx context.Context, token domain.RememberToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RememberToken, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteForUser(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context, reference time.Time) (int, error)
}
