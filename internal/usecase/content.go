package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/infra/security"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var (
	// ErrPostNotFound indicates the referenced post does not exist or is not visible.
	ErrPostNotFound = errors.New("post not found")
	// ErrSlugExhausted indicates slug conflict retries ran out.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)

// ImageUpload carries an incoming blob for a post image.
type ImageUpload struct {
	Name string
	Data io.Reader
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []string
	Status      domain.PostStatus
	Image       *ImageUpload
}

// UpdatePostInput carries the replacement fields for an existing post.
// A nil Image preserves the stored one.
type UpdatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []string
	Status      domain.PostStatus
	Image       *ImageUpload
}

// ListPostsInput narrows the public post listing.
type ListPostsInput struct {
	Page       int
	PerPage    int
	CategoryID string
	Search     string
}

// ContentService coordinates post lifecycle operations.
type ContentService struct {
	cfg        *config.AppConfig
	posts      port.PostRepository
	categories port.CategoryRepository
	blobs      port.BlobStore
	publisher  port.EventPublisher
	logger     *zap.Logger

	now      func() time.Time
	newToken func(byteLength int) (string, error)
}

// NewContentService constructs a ContentService with real clock and token source.
func NewContentService(
	cfg *config.AppConfig,
	posts port.PostRepository,
	categories port.CategoryRepository,
	blobs port.BlobStore,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		cfg:        cfg,
		posts:      posts,
		categories: categories,
		blobs:      blobs,
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newToken:   security.GenerateSecureToken,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *ContentService) WithClock(now func() time.Time) *ContentService {
	s.now = now
	return s
}

// WithTokenSource overrides the random token source. Intended for tests.
func (s *ContentService) WithTokenSource(newToken func(int) (string, error)) *ContentService {
	s.newToken = newToken
	return s
}

// dedupeIDs drops repeated ids while keeping first-seen order. Repeats would
// otherwise trip the post_categories primary key inside the write transaction.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *ContentService) validatePostInput(ctx context.Context, title, content string, categoryIDs []string, status domain.PostStatus) error {
	vErr := newValidationError()

	if len([]rune(strings.TrimSpace(title))) < s.cfg.Content.MinTitleLength {
		vErr.add("title", fmt.Sprintf("title must be at least %d characters long", s.cfg.Content.MinTitleLength))
	}
	if len([]rune(strings.TrimSpace(content))) < s.cfg.Content.MinContentLength {
		vErr.add("content", fmt.Sprintf("content must be at least %d characters long", s.cfg.Content.MinContentLength))
	}
	if status != domain.PostStatusDraft && status != domain.PostStatusPublished {
		vErr.add("status", "status must be draft or published")
	}
	if len(categoryIDs) == 0 {
		vErr.add("categories", "select at least one category")
	} else {
		ok, err := s.categories.ExistAll(ctx, categoryIDs)
		if err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if !ok {
			vErr.add("categories", "one or more categories do not exist")
		}
	}

	return vErr.orNil()
}

func (s *ContentService) saveImage(ctx context.Context, upload *ImageUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	ref, err := s.blobs.Save(ctx, upload.Name, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	return &ref, nil
}

func (s *ContentService) removeImage(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.blobs.Remove(ctx, *ref); err != nil {
		s.logger.Warn("failed to remove stored image", zap.String("ref", *ref), zap.Error(err))
	}
}

// CreatePost validates input, allocates a unique slug and persists the post
// with its category links in a single transaction. Slug conflicts raced in by
// concurrent writers are retried with the next numeric suffix.
func (s *ContentService) CreatePost(ctx context.Context, actor domain.ActorContext, input CreatePostInput) (domain.Post, error) {
	if input.Status == "" {
		input.Status = domain.PostStatusPublished
	}
	input.CategoryIDs = dedupeIDs(input.CategoryIDs)

	if err := s.validatePostInput(ctx, input.Title, input.Content, input.CategoryIDs, input.Status); err != nil {
		return domain.Post{}, err
	}

	base := Slugify(input.Title)
	if base == "" {
		raw, err := s.newToken(6)
		if err != nil {
			return domain.Post{}, fmt.Errorf("generate slug token: %w", err)
		}
		if base = Slugify(raw); base == "" {
			base = "post"
		}
	}

	taken, err := s.posts.ListSlugsLike(ctx, base)
	if err != nil {
		return domain.Post{}, fmt.Errorf("list slugs: %w", err)
	}
	slug := chooseSlug(base, taken)

	image, err := s.saveImage(ctx, input.Image)
	if err != nil {
		return domain.Post{}, err
	}

	now := s.now()
	post := domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  actor.UserID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Slug:      slug,
		Image:     image,
		Status:    input.Status,
		CreatedAt: now,
	}

	retries := s.cfg.Content.SlugMaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; ; attempt++ {
		err := s.posts.CreateWithLinks(ctx, post, input.CategoryIDs)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateSlug) {
			s.removeImage(ctx, image)
			return domain.Post{}, fmt.Errorf("create post: %w", err)
		}
		if attempt+1 >= retries {
			s.removeImage(ctx, image)
			return domain.Post{}, ErrSlugExhausted
		}
		taken = append(taken, post.Slug)
		post.Slug = chooseSlug(base, taken)
	}

	if err := s.publisher.PublishPost(ctx, domain.PostEvent{
		EventID:  uuid.NewString(),
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Slug:     post.Slug,
		Action:   "created",
		At:       now,
	}); err != nil {
		return domain.Post{}, fmt.Errorf("publish post event: %w", err)
	}

	return post, nil
}

// authorizePost loads a post and checks ownership. A missing post and a
// foreign post fail the same way so existence cannot be probed.
func (s *ContentService) authorizePost(ctx context.Context, actor domain.ActorContext, postID string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}

	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	return post, nil
}

// UpdatePost replaces the editable fields of a post and its full category
// link set. The stored image survives unless a new upload replaces it.
func (s *ContentService) UpdatePost(ctx context.Context, actor domain.ActorContext, postID string, input UpdatePostInput) (domain.Post, error) {
	post, err := s.authorizePost(ctx, actor, postID)
	if err != nil {
		return domain.Post{}, err
	}

	if input.Status == "" {
		input.Status = post.Status
	}
	input.CategoryIDs = dedupeIDs(input.CategoryIDs)

	if err := s.validatePostInput(ctx, input.Title, input.Content, input.CategoryIDs, input.Status); err != nil {
		return domain.Post{}, err
	}

	oldImage := post.Image
	newImage, err := s.saveImage(ctx, input.Image)
	if err != nil {
		return domain.Post{}, err
	}
	if newImage != nil {
		post.Image = newImage
	}

	now := s.now()
	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Status = input.Status
	post.UpdatedAt = &now

	if err := s.posts.UpdateWithLinks(ctx, *post, input.CategoryIDs); err != nil {
		if newImage != nil {
			s.removeImage(ctx, newImage)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Post{}, ErrForbidden
		}
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}

	if newImage != nil && oldImage != nil {
		s.removeImage(ctx, oldImage)
	}

	if err := s.publisher.PublishPost(ctx, domain.PostEvent{
		EventID:  uuid.NewString(),
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Slug:     post.Slug,
		Action:   "updated",
		At:       now,
	}); err != nil {
		return domain.Post{}, fmt.Errorf("publish post event: %w", err)
	}

	return *post, nil
}

// DeletePost removes a post with its comments and category links.
func (s *ContentService) DeletePost(ctx context.Context, actor domain.ActorContext, postID string) error {
	post, err := s.authorizePost(ctx, actor, postID)
	if err != nil {
		return err
	}

	if err := s.posts.DeleteCascade(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.removeImage(ctx, post.Image)

	if err := s.publisher.PublishPost(ctx, domain.PostEvent{
		EventID:  uuid.NewString(),
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Slug:     post.Slug,
		Action:   "deleted",
		At:       s.now(),
	}); err != nil {
		return fmt.Errorf("publish post event: %w", err)
	}

	return nil
}

// ListPublished returns a page of published posts, optionally narrowed by
// category and a case-insensitive title/content search. Rows and total come
// from the same predicate.
func (s *ContentService) ListPublished(ctx context.Context, input ListPostsInput) (domain.Paginated[domain.PostView], error) {
	page, perPage := normalizePage(input.Page, input.PerPage, s.cfg.Content.PostsPerPage)

	filter := port.PostFilter{
		CategoryID:    input.CategoryID,
		Search:        strings.TrimSpace(input.Search),
		PublishedOnly: true,
		Limit:         perPage,
		Offset:        (page - 1) * perPage,
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.PostView]{}, fmt.Errorf("count posts: %w", err)
	}

	items, err := s.posts.List(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.PostView]{}, fmt.Errorf("list posts: %w", err)
	}

	return domain.NewPaginated(items, total, page, perPage), nil
}

// ListByAuthor returns the actor's own posts, drafts included.
func (s *ContentService) ListByAuthor(ctx context.Context, actor domain.ActorContext, page, perPage int) (domain.Paginated[domain.PostView], error) {
	page, perPage = normalizePage(page, perPage, s.cfg.Content.PostsPerPage)

	filter := port.PostFilter{
		AuthorID: actor.UserID,
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.PostView]{}, fmt.Errorf("count posts: %w", err)
	}

	items, err := s.posts.List(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.PostView]{}, fmt.Errorf("list posts: %w", err)
	}

	return domain.NewPaginated(items, total, page, perPage), nil
}

// GetBySlug returns a published post for display.
func (s *ContentService) GetBySlug(ctx context.Context, slug string) (*domain.PostView, error) {
	view, err := s.posts.GetViewBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	return view, nil
}

// GetViewByID returns a published post for display by id.
func (s *ContentService) GetViewByID(ctx context.Context, id string) (*domain.PostView, error) {
	view, err := s.posts.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	return view, nil
}

// RegisterView bumps the view counter. Failures are logged and swallowed so
// the read path never degrades over a counter.
func (s *ContentService) RegisterView(ctx context.Context, postID string) {
	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		s.logger.Warn("failed to increment post views", zap.String("post_id", postID), zap.Error(err))
	}
}

// Popular returns the most viewed published posts.
func (s *ContentService) Popular(ctx context.Context, limit int) ([]domain.PostView, error) {
	if limit < 1 || limit > maxPageSize {
		limit = 5
	}

	items, err := s.posts.ListPopular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular posts: %w", err)
	}
	return items, nil
}

// Recent returns the newest published posts.
func (s *ContentService) Recent(ctx context.Context, limit int) ([]domain.PostView, error) {
	if limit < 1 || limit > maxPageSize {
		limit = 5
	}

	items, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	return items, nil
}
