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

var categoryConstraints = map[string]error{
	"categories_name_key": repository.ErrDuplicateName,
}

// CategoryRepository implements port.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewCategoryRepository wires a PostgreSQL-backed category repository.
func NewCategoryRepository(pool pgPool) *CategoryRepository {
	return &CategoryRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new category row.
func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Insert("categories").
		Columns("id", "name", "description", "created_at", "updated_at").
		Values(category.ID, category.Name, category.Description, category.CreatedAt, category.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert category sql: %w", err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		if mapped := uniqueConstraint(err, categoryConstraints); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// Update modifies name and description.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Update("categories").
		Set("name", category.Name).
		Set("description", category.Description).
		Set("updated_at", category.UpdatedAt).
		Where(squirrel.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update category sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		if mapped := uniqueConstraint(err, categoryConstraints); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteCascade removes the category and its post links atomically. Posts
// themselves are left untouched.
func (r *CategoryRepository) DeleteCascade(ctx context.Context, id string) error {
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("delete category links: %w", err)
		}

		ct, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
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
		return fmt.Errorf("delete category tx: %w", err)
	}
	return nil
}

// GetByID retrieves a category by identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a category by its unique name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getBy(ctx, squirrel.Eq{"name": name})
}

func (r *CategoryRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Category, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "description", "created_at", "updated_at").
		From("categories").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select category sql: %w", err)
	}

	var category domain.Category
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &category, nil
}

// List returns all categories with their published post counts, by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.CategorySummary, error) {
	stmt, args, err := r.builder.Select(
		"c.id", "c.name", "c.description", "c.created_at", "c.updated_at",
		"COUNT(p.id) AS post_count",
	).
		From("categories c").
		LeftJoin("post_categories pc ON pc.category_id = c.id").
		LeftJoin("posts p ON p.id = pc.post_id AND p.status = 'published'").
		GroupBy("c.id").
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.CategorySummary, 0)
	for rows.Next() {
		var summary domain.CategorySummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.PostCount,
		); err != nil {
			return nil, fmt.Errorf("scan category summary: %w", err)
		}
		categories = append(categories, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// ExistAll reports whether every id refers to an existing category.
func (r *CategoryRepository) ExistAll(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	stmt, args, err := r.builder.Select("COUNT(DISTINCT id)").
		From("categories").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build count categories sql: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scan categories count: %w", err)
	}

	return int(count) == len(uniqueStrings(ids)), nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

var _ port.CategoryRepository = (*CategoryRepository)(nil)
