package port

import (
	"context"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// PostFilter narrows post listings. Rows and counts are derived from the same
// predicate so totals never diverge from pages.
type PostFilter struct {
	CategoryID    string
	Search        string
	AuthorID      string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// PostRepository exposes persistence behavior for posts and their category
// links. The multi-row operations (create with links, update with link
// replacement, cascading delete) each execute as a single transaction; a slug
// uniqueness violation surfaces as repository.ErrDuplicateSlug so the caller
// can retry with the next suffix.
type PostRepository interface {
	CreateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error
	UpdateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error
	DeleteCascade(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetViewByID(ctx context.Context, id string) (*domain.PostView, error)
	GetViewBySlug(ctx context.Context, slug string) (*domain.PostView, error)
	List(ctx context.Context, filter PostFilter) ([]domain.PostView, error)
	Count(ctx context.Context, filter PostFilter) (int, error)
	ListPopular(ctx context.Context, limit int) ([]domain.PostView, error)
	ListRecent(ctx context.Context, limit int) ([]domain.PostView, error)
	ListSlugsLike(ctx context.Context, base string) ([]string, error)
	IncrementViews(ctx context.Context, id string) error
}
