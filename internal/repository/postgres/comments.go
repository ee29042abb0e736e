package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

// CommentRepository implements port.CommentRepository using PostgreSQL.
type CommentRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewCommentRepository wires a PostgreSQL-backed comment repository.
func NewCommentRepository(pool pgPool) *CommentRepository {
	return &CommentRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new comment row.
func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	stmt, args, err := r.builder.Insert("comments").
		Columns("id", "post_id", "user_id", "content", "status", "created_at", "updated_at").
		Values(comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.Status, comment.CreatedAt, comment.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// Update replaces the comment text.
func (r *CommentRepository) Update(ctx context.Context, id string, content string, updatedAt time.Time) error {
	stmt, args, err := r.builder.Update("comments").
		Set("content", content).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update comment sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a single comment.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete comment sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetByID retrieves a comment by identifier.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	stmt, args, err := r.builder.
		Select("id", "post_id", "user_id", "content", "status", "created_at", "updated_at").
		From("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select comment sql: %w", err)
	}

	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Status,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &comment, nil
}

// ListByPost returns approved comments for the post, oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]domain.CommentView, error) {
	query := r.builder.Select(
		"c.id", "c.post_id", "c.user_id", "c.content", "c.status", "c.created_at", "c.updated_at",
		"u.username",
	).
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(squirrel.Eq{"c.post_id": postID, "c.status": domain.CommentStatusApproved}).
		OrderBy("c.created_at ASC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.CommentView, 0)
	for rows.Next() {
		var view domain.CommentView
		if err := rows.Scan(
			&view.ID,
			&view.PostID,
			&view.AuthorID,
			&view.Content,
			&view.Status,
			&view.CreatedAt,
			&view.UpdatedAt,
			&view.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("scan comment view: %w", err)
		}
		comments = append(comments, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// CountByPost counts approved comments on the post.
func (r *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("comments").
		Where(squirrel.Eq{"post_id": postID, "status": domain.CommentStatusApproved}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count comments sql: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan comments count: %w", err)
	}

	return int(count), nil
}

var _ port.CommentRepository = (*CommentRepository)(nil)
