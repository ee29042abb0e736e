package port

import (
	"context"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// SessionStore holds ephemeral login sessions keyed by the opaque cookie value.
// Entries have no durability requirement beyond their TTL.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, key string) (*domain.Session, error)
	Delete(ctx context.Context, key string) error
}
