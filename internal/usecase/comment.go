package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var (
	// ErrPostNotPublished indicates the post cannot accept comments.
	ErrPostNotPublished = errors.New("post is not published")
	// ErrCommentNotFound indicates the referenced comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentService handles comment creation and moderation rules.
type CommentService struct {
	cfg      *config.AppConfig
	comments port.CommentRepository
	posts    port.PostRepository
	now      func() time.Time
}

// NewCommentService constructs a CommentService.
func NewCommentService(cfg *config.AppConfig, comments port.CommentRepository, posts port.PostRepository) *CommentService {
	return &CommentService{
		cfg:      cfg,
		comments: comments,
		posts:    posts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

func (s *CommentService) validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	length := len([]rune(trimmed))

	vErr := newValidationError()
	if length < s.cfg.Content.MinCommentLength {
		vErr.add("content", fmt.Sprintf("comment must be at least %d characters long", s.cfg.Content.MinCommentLength))
	} else if length > s.cfg.Content.MaxCommentLength {
		vErr.add("content", fmt.Sprintf("comment must be at most %d characters long", s.cfg.Content.MaxCommentLength))
	}

	return trimmed, vErr.orNil()
}

// Add attaches a comment to a published post.
func (s *CommentService) Add(ctx context.Context, actor domain.ActorContext, postID, content string) (domain.Comment, error) {
	trimmed, err := s.validateContent(content)
	if err != nil {
		return domain.Comment{}, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, fmt.Errorf("lookup post: %w", err)
	}
	if !post.IsPublished() {
		return domain.Comment{}, ErrPostNotPublished
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		AuthorID:  actor.UserID,
		Content:   trimmed,
		Status:    domain.CommentStatusApproved,
		CreatedAt: s.now(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	return comment, nil
}

// authorizeComment loads a comment and checks ownership. A missing comment
// and a foreign comment fail the same way.
func (s *CommentService) authorizeComment(ctx context.Context, actor domain.ActorContext, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("lookup comment: %w", err)
	}

	if comment.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	return comment, nil
}

// Update rewrites a comment's content. Owner or admin only.
func (s *CommentService) Update(ctx context.Context, actor domain.ActorContext, commentID, content string) (domain.Comment, error) {
	trimmed, err := s.validateContent(content)
	if err != nil {
		return domain.Comment{}, err
	}

	comment, err := s.authorizeComment(ctx, actor, commentID)
	if err != nil {
		return domain.Comment{}, err
	}

	now := s.now()
	if err := s.comments.Update(ctx, comment.ID, trimmed, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Comment{}, ErrForbidden
		}
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}

	comment.Content = trimmed
	comment.UpdatedAt = &now
	return *comment, nil
}

// Delete removes a comment. Owner or admin only.
func (s *CommentService) Delete(ctx context.Context, actor domain.ActorContext, commentID string) error {
	comment, err := s.authorizeComment(ctx, actor, commentID)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

// ListForPost returns a page of approved comments for a post, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID string, page, perPage int) (domain.Paginated[domain.CommentView], error) {
	page, perPage = normalizePage(page, perPage, s.cfg.Content.CommentsPerPage)

	total, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		return domain.Paginated[domain.CommentView]{}, fmt.Errorf("count comments: %w", err)
	}

	items, err := s.comments.ListByPost(ctx, postID, perPage, (page-1)*perPage)
	if err != nil {
		return domain.Paginated[domain.CommentView]{}, fmt.Errorf("list comments: %w", err)
	}

	return domain.NewPaginated(items, total, page, perPage), nil
}
