package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/infra/security"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

var (
	// ErrForbidden indicates the actor lacks the role required for the operation.
	ErrForbidden = errors.New("operation not permitted")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfAction indicates an admin attempted to disable or delete themselves.
	ErrSelfAction = errors.New("cannot apply this action to your own account")
)

// UserService handles profile management and admin user administration.
type UserService struct {
	cfg   *config.AppConfig
	users port.UserRepository
	now   func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(cfg *config.AppConfig, users port.UserRepository) *UserService {
	return &UserService{
		cfg:   cfg,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// Profile returns the actor's own account without credentials.
func (s *UserService) Profile(ctx context.Context, actor domain.ActorContext) (domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return sanitized, nil
}

// UpdateProfile applies a partial update to the actor's own account. Nil
// fields are left untouched; set fields are validated before anything is
// written.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.ActorContext, update domain.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	vErr := newValidationError()
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if len([]rune(trimmed)) < 3 {
			vErr.add("username", "username must be at least 3 characters long")
		}
		update.Username = &trimmed
	}
	if update.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*update.Email))
		if _, err := mail.ParseAddress(normalized); err != nil || normalized == "" {
			vErr.add("email", "a valid email address is required")
		}
		update.Email = &normalized
	}
	if err := vErr.orNil(); err != nil {
		return err
	}

	if err := s.users.UpdateProfile(ctx, actor.UserID, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			vErr.add("username", "username is already taken")
			return vErr
		case errors.Is(err, repository.ErrDuplicateEmail):
			vErr.add("email", "email is already registered")
			return vErr
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		default:
			return fmt.Errorf("update profile: %w", err)
		}
	}

	return nil
}

// ChangePassword re-verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, actor domain.ActorContext, current, newPassword, confirm string) error {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	vErr := newValidationError()
	if newPassword != confirm {
		vErr.add("password_confirm", "passwords do not match")
	}

	validator := security.NewPasswordValidator(
		security.MinLengthRule(s.cfg.Password.MinLength),
		security.RequireDifferentFrom(current),
		security.RequirePasswordStrengthRule(s.cfg.Password.MinScore, user.Username, user.Email),
	)
	if err := validator.Validate(newPassword); err != nil {
		vErr.add("password", err.Error())
	}
	if err := vErr.orNil(); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, actor.UserID, hash, s.now()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// ListUsers returns a page of users with post counts. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor domain.ActorContext, page, perPage int) (domain.Paginated[domain.UserSummary], error) {
	if !actor.IsAdmin() {
		return domain.Paginated[domain.UserSummary]{}, ErrForbidden
	}

	page, perPage = normalizePage(page, perPage, defaultAdminPageSize)
	filter := port.UserFilter{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.UserSummary]{}, fmt.Errorf("count users: %w", err)
	}

	items, err := s.users.List(ctx, filter)
	if err != nil {
		return domain.Paginated[domain.UserSummary]{}, fmt.Errorf("list users: %w", err)
	}

	for i := range items {
		items[i].PasswordHash = ""
	}

	return domain.NewPaginated(items, total, page, perPage), nil
}

// SetStatus activates or deactivates an account. Admin only; admins cannot
// deactivate themselves.
func (s *UserService) SetStatus(ctx context.Context, actor domain.ActorContext, userID string, status domain.UserStatus) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if userID == actor.UserID {
		return ErrSelfAction
	}
	if status != domain.UserStatusActive && status != domain.UserStatusInactive {
		vErr := newValidationError()
		vErr.add("status", "status must be active or inactive")
		return vErr
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}

	return nil
}

// DeleteUser removes an account along with its posts, comments and tokens.
// Admin only; admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.ActorContext, userID string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if userID == actor.UserID {
		return ErrSelfAction
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
