package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var postConstraints = map[string]error{
	"posts_slug_key": repository.ErrDuplicateSlug,
}

// PostRepository implements port.PostRepository using PostgreSQL. Every
// multi-row write runs inside a single transaction so a post can never be
// observed without its category links or with stale ones.
type PostRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewPostRepository wires a PostgreSQL-backed post repository.
func NewPostRepository(pool pgPool) *PostRepository {
	return &PostRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateWithLinks inserts the post and its category links atomically. A slug
// collision with a concurrent writer aborts the whole transaction and surfaces
// repository.ErrDuplicateSlug for the caller to retry with the next suffix.
func (r *PostRepository) CreateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error {
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		stmt, args, err := r.builder.Insert("posts").
			Columns("id", "user_id", "title", "content", "slug", "image", "status", "views", "created_at", "updated_at").
			Values(post.ID, post.AuthorID, post.Title, post.Content, post.Slug, post.Image, post.Status, post.Views, post.CreatedAt, post.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert post sql: %w", err)
		}
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			if mapped := uniqueConstraint(err, postConstraints); mapped != nil {
				return mapped
			}
			return fmt.Errorf("insert post: %w", err)
		}

		return r.insertLinks(ctx, tx, post.ID, categoryIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return err
		}
		return fmt.Errorf("create post tx: %w", err)
	}
	return nil
}

// UpdateWithLinks updates the post row and replaces its category links
// wholesale within the same transaction.
func (r *PostRepository) UpdateWithLinks(ctx context.Context, post domain.Post, categoryIDs []string) error {
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		stmt, args, err := r.builder.Update("posts").
			Set("title", post.Title).
			Set("content", post.Content).
			Set("image", post.Image).
			Set("status", post.Status).
			Set("updated_at", post.UpdatedAt).
			Where(squirrel.Eq{"id": post.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update post sql: %w", err)
		}
		ct, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("clear category links: %w", err)
		}

		return r.insertLinks(ctx, tx, post.ID, categoryIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update post tx: %w", err)
	}
	return nil
}

// DeleteCascade removes the post's comments, its category links, then the post
// itself as one atomic unit.
func (r *PostRepository) DeleteCascade(ctx context.Context, id string) error {
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete category links: %w", err)
		}

		ct, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete post tx: %w", err)
	}
	return nil
}

func (r *PostRepository) insertLinks(ctx context.Context, tx pgx.Tx, postID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	query := r.builder.Insert("post_categories").Columns("post_id", "category_id")
	for _, categoryID := range categoryIDs {
		query = query.Values(postID, categoryID)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert links sql: %w", err)
	}
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert category links: %w", err)
	}

	return nil
}

// GetByID retrieves the bare post row regardless of status.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "title", "content", "slug", "image", "status", "views", "created_at", "updated_at").
		From("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select post sql: %w", err)
	}

	var post domain.Post
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Slug,
		&post.Image,
		&post.Status,
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return &post, nil
}

// GetViewByID retrieves a published post joined with author and categories.
func (r *PostRepository) GetViewByID(ctx context.Context, id string) (*domain.PostView, error) {
	return r.getView(ctx, squirrel.Eq{"p.id": id})
}

// GetViewBySlug retrieves a published post joined with author and categories.
func (r *PostRepository) GetViewBySlug(ctx context.Context, slug string) (*domain.PostView, error) {
	return r.getView(ctx, squirrel.Eq{"p.slug": slug})
}

func (r *PostRepository) getView(ctx context.Context, pred squirrel.Sqlizer) (*domain.PostView, error) {
	query := r.viewQuery().
		Where(pred).
		Where(squirrel.Eq{"p.status": domain.PostStatusPublished})

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select post view sql: %w", err)
	}

	view, err := scanPostView(r.pool.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post view: %w", err)
	}

	return view, nil
}

// List returns post views matching the filter, newest first.
func (r *PostRepository) List(ctx context.Context, filter port.PostFilter) ([]domain.PostView, error) {
	query := r.viewQuery().OrderBy("p.created_at DESC")
	for _, pred := range filterPredicates(filter) {
		query = query.Where(pred)
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts sql: %w", err)
	}

	return r.queryViews(ctx, stmt, args)
}

// Count returns the number of posts matching the same predicate List uses.
func (r *PostRepository) Count(ctx context.Context, filter port.PostFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("posts p")
	for _, pred := range filterPredicates(filter) {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count posts sql: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan posts count: %w", err)
	}

	return int(count), nil
}

// ListPopular returns published posts by descending view count.
func (r *PostRepository) ListPopular(ctx context.Context, limit int) ([]domain.PostView, error) {
	query := r.viewQuery().
		Where(squirrel.Eq{"p.status": domain.PostStatusPublished}).
		OrderBy("p.views DESC", "p.created_at DESC").
		Limit(uint64(limit))

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build popular posts sql: %w", err)
	}

	return r.queryViews(ctx, stmt, args)
}

// ListRecent returns the newest published posts.
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]domain.PostView, error) {
	query := r.viewQuery().
		Where(squirrel.Eq{"p.status": domain.PostStatusPublished}).
		OrderBy("p.created_at DESC").
		Limit(uint64(limit))

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent posts sql: %w", err)
	}

	return r.queryViews(ctx, stmt, args)
}

// ListSlugsLike returns every slug equal to the base or carrying one of its
// numeric suffixes, so the generator can pick the first free value.
func (r *PostRepository) ListSlugsLike(ctx context.Context, base string) ([]string, error) {
	stmt, args, err := r.builder.Select("slug").
		From("posts").
		Where(squirrel.Or{
			squirrel.Eq{"slug": base},
			squirrel.Like{"slug": base + "-%"},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select slugs sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query slugs: %w", err)
	}
	defer rows.Close()

	slugs := make([]string, 0)
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slugs: %w", err)
	}

	return slugs, nil
}

// IncrementViews bumps the view counter. Best effort: callers on the read path
// log failures instead of propagating them.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *PostRepository) viewQuery() squirrel.SelectBuilder {
	return r.builder.Select(
		"p.id", "p.user_id", "p.title", "p.content", "p.slug", "p.image", "p.status", "p.views", "p.created_at", "p.updated_at",
		"u.username",
		"COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.id IS NOT NULL), '{}') AS categories",
		"COALESCE(array_agg(c.id::text ORDER BY c.name) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_ids",
		"(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id AND cm.status = 'approved') AS comment_count",
	).
		From("posts p").
		Join("users u ON u.id = p.user_id").
		LeftJoin("post_categories pc ON pc.post_id = p.id").
		LeftJoin("categories c ON c.id = pc.category_id").
		GroupBy("p.id", "u.username")
}

// filterPredicates builds the WHERE clauses shared by List and Count. The
// category membership check uses EXISTS so counting never multiplies rows.
func filterPredicates(filter port.PostFilter) []squirrel.Sqlizer {
	preds := make([]squirrel.Sqlizer, 0, 4)
	if filter.PublishedOnly {
		preds = append(preds, squirrel.Eq{"p.status": domain.PostStatusPublished})
	}
	if filter.AuthorID != "" {
		preds = append(preds, squirrel.Eq{"p.user_id": filter.AuthorID})
	}
	if filter.CategoryID != "" {
		preds = append(preds, squirrel.Expr(
			"EXISTS (SELECT 1 FROM post_categories pcf WHERE pcf.post_id = p.id AND pcf.category_id = ?)",
			filter.CategoryID,
		))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		preds = append(preds, squirrel.Or{
			squirrel.ILike{"p.title": pattern},
			squirrel.ILike{"p.content": pattern},
		})
	}
	return preds
}

func (r *PostRepository) queryViews(ctx context.Context, stmt string, args []any) ([]domain.PostView, error) {
	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	views := make([]domain.PostView, 0)
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post view: %w", err)
		}
		views = append(views, *view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return views, nil
}

func scanPostView(row pgx.Row) (*domain.PostView, error) {
	var view domain.PostView
	if err := row.Scan(
		&view.ID,
		&view.AuthorID,
		&view.Title,
		&view.Content,
		&view.Slug,
		&view.Image,
		&view.Status,
		&view.Views,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.AuthorName,
		&view.Categories,
		&view.CategoryIDs,
		&view.CommentCount,
	); err != nil {
		return nil, err
	}
	return &view, nil
}

var _ port.PostRepository = (*PostRepository)(nil)
