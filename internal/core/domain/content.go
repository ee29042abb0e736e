package domain

import "time"

// PostStatus enumerates the publication states of a post.
// The only transition is draft -> published; posts are hard-deleted.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// CommentStatus enumerates moderation states for comments.
type CommentStatus string

const (
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusPending  CommentStatus = "pending"
)

// Category is an independent grouping entity. Deleting one removes its post
// associations but never the posts themselves.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// CategorySummary augments a category with its published post count.
type CategorySummary struct {
	Category
	PostCount int
}

// Post mirrors the persisted representation in the posts table. Category
// membership lives in the post_categories join table, never on the row itself.
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	Slug      string
	Image     *string
	Status    PostStatus
	Views     int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsPublished reports whether the post is visible to readers.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostView is a post joined with its author and category names for display.
type PostView struct {
	Post
	AuthorName   string
	Categories   []string
	CategoryIDs  []string
	CommentCount int
}

// Comment mirrors the persisted representation in the comments table.
// Comments never outlive their post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	Status    CommentStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CommentView is a comment joined with its author name for display.
type CommentView struct {
	Comment
	AuthorName string
}

// Paginated wraps an offset-paginated result set. Total and Pages are computed
// from the same predicate as the items, so they never diverge.
type Paginated[T any] struct {
	Items       []T
	Total       int
	Pages       int
	CurrentPage int
	PerPage     int
}

// NewPaginated assembles a page, deriving the page count from the total.
func NewPaginated[T any](items []T, total, page, perPage int) Paginated[T] {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Paginated[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		PerPage:     perPage,
	}
}
