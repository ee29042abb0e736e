package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// ValidationErrorResponse carries per-field validation messages.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
	TraceID string            `json:"trace_id,omitempty"`
}

// NewValidationErrorResponse converts a usecase validation error to its API form.
func NewValidationErrorResponse(c *gin.Context, validation *usecase.ValidationError) ValidationErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	fields := map[string]string{}
	if validation != nil {
		for name, message := range validation.Fields {
			fields[name] = message
		}
	}

	return ValidationErrorResponse{
		Error:   "validation failed",
		Fields:  fields,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserPayload describes a user view returned by the API. Credentials never
// appear here.
type UserPayload struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Role      domain.Role       `json:"role"`
	Status    domain.UserStatus `json:"status"`
	Bio       *string           `json:"bio,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	LastLogin *time.Time        `json:"last_login,omitempty"`
}

// UserSummaryPayload augments a user with aggregate counts for admin listings.
type UserSummaryPayload struct {
	UserPayload
	PostCount int `json:"post_count"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// RegisterResponse contains the created account.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// LoginResponse describes the response returned for a successful login. The
// session itself travels in an HTTP-only cookie, only the CSRF token is
// exposed to scripts.
type LoginResponse struct {
	User      UserPayload `json:"user"`
	CSRFToken string      `json:"csrf_token"`
}

// CSRFResponse exposes the token bound to the current session.
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// ProfileUpdateRequest carries optional profile changes. Absent fields are
// left untouched.
type ProfileUpdateRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// PasswordChangeRequest captures a password change request body.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserStatusRequest sets an account status in the admin API.
type UserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserListResponse wraps a paginated admin user listing.
type UserListResponse struct {
	Users   []UserSummaryPayload `json:"users"`
	Total   int                  `json:"total"`
	Pages   int                  `json:"pages"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
}

// PostPayload describes a post view with author and category context.
type PostPayload struct {
	ID           string            `json:"id"`
	AuthorID     string            `json:"author_id"`
	AuthorName   string            `json:"author_name"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Slug         string            `json:"slug"`
	Image        *string           `json:"image,omitempty"`
	Status       domain.PostStatus `json:"status"`
	Views        int64             `json:"views"`
	Categories   []string          `json:"categories"`
	CategoryIDs  []string          `json:"category_ids"`
	CommentCount int               `json:"comment_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}

// PostRequest defines the JSON payload for creating or replacing a post.
// Multipart submissions carry the same fields plus an optional image part.
type PostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CategoryIDs []string `json:"category_ids"`
	Status      string   `json:"status"`
}

// PostResponse wraps a single created or updated post row.
type PostResponse struct {
	Post PostSummaryPayload `json:"post"`
}

// PostSummaryPayload is the bare post row without joined display fields,
// returned by mutations before the view is re-read.
type PostSummaryPayload struct {
	ID        string            `json:"id"`
	AuthorID  string            `json:"author_id"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Image     *string           `json:"image,omitempty"`
	Status    domain.PostStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

// PostListResponse wraps a paginated post listing.
type PostListResponse struct {
	Posts   []PostPayload `json:"posts"`
	Total   int           `json:"total"`
	Pages   int           `json:"pages"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// CategoryPayload describes a category with its published post count.
type CategoryPayload struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	PostCount   int        `json:"post_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CategoryRequest defines the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryListResponse wraps all categories.
type CategoryListResponse struct {
	Categories []CategoryPayload `json:"categories"`
}

// CommentPayload describes a comment view with its author name.
type CommentPayload struct {
	ID         string               `json:"id"`
	PostID     string               `json:"post_id"`
	AuthorID   string               `json:"author_id"`
	AuthorName string               `json:"author_name,omitempty"`
	Content    string               `json:"content"`
	Status     domain.CommentStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  *time.Time           `json:"updated_at,omitempty"`
}

// CommentRequest carries the comment body for create and update.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentListResponse wraps a paginated comment listing for a post.
type CommentListResponse struct {
	Comments []CommentPayload `json:"comments"`
	Total    int              `json:"total"`
	Pages    int              `json:"pages"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// newUserPayload converts a domain user to its API form.
func newUserPayload(user domain.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

func newUserSummaryPayload(summary domain.UserSummary) UserSummaryPayload {
	return UserSummaryPayload{
		UserPayload: newUserPayload(summary.User),
		PostCount:   summary.PostCount,
	}
}

// newPostPayload converts a joined post view to its API form.
func newPostPayload(view domain.PostView) PostPayload {
	categories := view.Categories
	if categories == nil {
		categories = []string{}
	}
	categoryIDs := view.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}

	return PostPayload{
		ID:           view.ID,
		AuthorID:     view.AuthorID,
		AuthorName:   view.AuthorName,
		Title:        view.Title,
		Content:      view.Content,
		Slug:         view.Slug,
		Image:        view.Image,
		Status:       view.Status,
		Views:        view.Views,
		Categories:   categories,
		CategoryIDs:  categoryIDs,
		CommentCount: view.CommentCount,
		CreatedAt:    view.CreatedAt,
		UpdatedAt:    view.UpdatedAt,
	}
}

func newPostSummaryPayload(post domain.Post) PostSummaryPayload {
	return PostSummaryPayload{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Slug:      post.Slug,
		Image:     post.Image,
		Status:    post.Status,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func newCategoryPayload(summary domain.CategorySummary) CategoryPayload {
	return CategoryPayload{
		ID:          summary.ID,
		Name:        summary.Name,
		Description: summary.Description,
		PostCount:   summary.PostCount,
		CreatedAt:   summary.CreatedAt,
		UpdatedAt:   summary.UpdatedAt,
	}
}

// newCommentRowPayload converts a bare comment row, used by mutations that do
// not re-read the joined view.
func newCommentRowPayload(comment domain.Comment) CommentPayload {
	return CommentPayload{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		Status:    comment.Status,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func newCommentPayload(view domain.CommentView) CommentPayload {
	return CommentPayload{
		ID:         view.ID,
		PostID:     view.PostID,
		AuthorID:   view.AuthorID,
		AuthorName: view.AuthorName,
		Content:    view.Content,
		Status:     view.Status,
		CreatedAt:  view.CreatedAt,
		UpdatedAt:  view.UpdatedAt,
	}
}
