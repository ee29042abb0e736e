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
	"github.com/arklim/social-platform-publishing/internal/repository"
)

const (
	minCategoryNameLength = 2
	maxCategoryNameLength = 50
)

// ErrCategoryNotFound indicates the referenced category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles the admin-managed category catalog.
type CategoryService struct {
	categories port.CategoryRepository
	now        func() time.Time
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories port.CategoryRepository) *CategoryService {
	return &CategoryService{
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *CategoryService) WithClock(now func() time.Time) *CategoryService {
	s.now = now
	return s
}

func validateCategoryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	length := len([]rune(trimmed))

	vErr := newValidationError()
	if length < minCategoryNameLength || length > maxCategoryNameLength {
		vErr.add("name", fmt.Sprintf("name must be between %d and %d characters", minCategoryNameLength, maxCategoryNameLength))
	}

	return trimmed, vErr.orNil()
}

// Create adds a category. Admin only; names are unique.
func (s *CategoryService) Create(ctx context.Context, actor domain.ActorContext, name, description string) (domain.Category, error) {
	if !actor.IsAdmin() {
		return domain.Category{}, ErrForbidden
	}

	trimmed, err := validateCategoryName(name)
	if err != nil {
		return domain.Category{}, err
	}

	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        trimmed,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			vErr := newValidationError()
			vErr.add("name", "a category with this name already exists")
			return domain.Category{}, vErr
		}
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// Update renames a category or changes its description. Admin only.
func (s *CategoryService) Update(ctx context.Context, actor domain.ActorContext, id, name, description string) (domain.Category, error) {
	if !actor.IsAdmin() {
		return domain.Category{}, ErrForbidden
	}

	trimmed, err := validateCategoryName(name)
	if err != nil {
		return domain.Category{}, err
	}

	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("lookup category: %w", err)
	}

	now := s.now()
	existing.Name = trimmed
	existing.Description = strings.TrimSpace(description)
	existing.UpdatedAt = &now

	if err := s.categories.Update(ctx, *existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			vErr := newValidationError()
			vErr.add("name", "a category with this name already exists")
			return domain.Category{}, vErr
		case errors.Is(err, repository.ErrNotFound):
			return domain.Category{}, ErrCategoryNotFound
		default:
			return domain.Category{}, fmt.Errorf("update category: %w", err)
		}
	}

	return *existing, nil
}

// Delete removes a category and its post links, never the posts. Admin only.
func (s *CategoryService) Delete(ctx context.Context, actor domain.ActorContext, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.categories.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}

	return nil
}

// List returns all categories with their published post counts.
func (s *CategoryService) List(ctx context.Context) ([]domain.CategorySummary, error) {
	items, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}
