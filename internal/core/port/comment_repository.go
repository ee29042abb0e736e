package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// CommentRepository exposes persistence behavior for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	Update(ctx context.Context, id string, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]domain.CommentView, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}
