package port

import (
	"context"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// CategoryRepository exposes persistence behavior for categories. Delete
// removes the category and its post links in one transaction, never the posts.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	DeleteCascade(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.CategorySummary, error)
	ExistAll(ctx context.Context, ids []string) (bool, error)
}
