package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Status domain.UserStatus
	Limit  int
	Offset int
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]domain.UserSummary, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
