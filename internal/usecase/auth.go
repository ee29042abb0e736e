package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/infra/security"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

const (
	sessionKeyBytes   = 32
	rememberTokenSize = 32
	attemptRetention  = 30 * 24 * time.Hour
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked indicates too many recent failed attempts for the email.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrAccountInactive indicates the account exists but may not log in.
	ErrAccountInactive = errors.New("account is not active")
	// ErrSessionNotFound indicates the session key resolves to nothing.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidRememberToken indicates the remember token is unknown or expired.
	ErrInvalidRememberToken = errors.New("invalid remember token")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
)

// AuthService coordinates registration, login, session and remember-token flows.
type AuthService struct {
	cfg       *config.AppConfig
	users     port.UserRepository
	attempts  port.LoginAttemptRepository
	remember  port.RememberTokenRepository
	sessions  port.SessionStore
	publisher port.EventPublisher

	now      func() time.Time
	newToken func(byteLength int) (string, error)
}

// NewAuthService constructs an AuthService with real clock and token source.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	attempts port.LoginAttemptRepository,
	remember port.RememberTokenRepository,
	sessions port.SessionStore,
	publisher port.EventPublisher,
) *AuthService {
	return &AuthService{
		cfg:       cfg,
		users:     users,
		attempts:  attempts,
		remember:  remember,
		sessions:  sessions,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		newToken:  security.GenerateSecureToken,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// WithTokenSource overrides the random token source. Intended for tests.
func (s *AuthService) WithTokenSource(newToken func(int) (string, error)) *AuthService {
	s.newToken = newToken
	return s
}

// Register validates input, creates an active user account and publishes the
// registration event. Duplicate username or email surface as field messages.
func (s *AuthService) Register(ctx context.Context, username, email, password, confirm string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	vErr := newValidationError()
	if len([]rune(username)) < 3 {
		vErr.add("username", "username must be at least 3 characters long")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		vErr.add("email", "a valid email address is required")
	}
	if password != confirm {
		vErr.add("password_confirm", "passwords do not match")
	}

	validator := security.RegistrationPasswordValidator(
		s.cfg.Password.MinLength,
		s.cfg.Password.MinScore,
		username, email,
	)
	if err := validator.Validate(password); err != nil {
		vErr.add("password", err.Error())
	}

	if err := vErr.orNil(); err != nil {
		return domain.User{}, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			vErr.add("username", "username is already taken")
			return domain.User{}, vErr
		case errors.Is(err, repository.ErrDuplicateEmail):
			vErr.add("email", "email is already registered")
			return domain.User{}, vErr
		default:
			return domain.User{}, fmt.Errorf("create user: %w", err)
		}
	}

	if err := s.publisher.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: now,
	}); err != nil {
		return domain.User{}, fmt.Errorf("publish registration event: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// LoginInput carries one authentication attempt.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
	IP       *string
}

// LoginResult carries the artifacts of a successful login. RememberToken holds
// the raw token value when one was requested, otherwise empty.
type LoginResult struct {
	User          domain.User
	Session       domain.Session
	RememberToken string
}

// Login authenticates a user. The lockout window is evaluated before any
// credential work, and every distinct failure collapses into
// ErrInvalidCredentials so the caller cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()

	failures, err := s.attempts.CountRecentFailures(ctx, email, s.cfg.Lockout.Window, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("count recent failures: %w", err)
	}
	if failures >= s.cfg.Lockout.MaxAttempts {
		return LoginResult{}, ErrAccountLocked
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, s.failLogin(ctx, email, input.IP, now)
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.CanLogin() {
		return LoginResult{}, s.failLogin(ctx, email, input.IP, now)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return LoginResult{}, s.failLogin(ctx, email, input.IP, now)
	}

	if err := s.attempts.Record(ctx, domain.LoginAttempt{
		ID:        uuid.NewString(),
		Email:     email,
		Succeeded: true,
		IP:        input.IP,
		CreatedAt: now,
	}); err != nil {
		return LoginResult{}, fmt.Errorf("record login attempt: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, fmt.Errorf("update last login: %w", err)
	}

	session, err := s.mintSession(ctx, *user, now)
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{User: *user, Session: session}
	result.User.PasswordHash = ""

	if input.Remember {
		raw, err := s.mintRememberToken(ctx, user.ID, now)
		if err != nil {
			return LoginResult{}, err
		}
		result.RememberToken = raw
	}

	if err := s.publisher.PublishLogin(ctx, domain.LoginEvent{
		EventID:   uuid.NewString(),
		UserID:    user.ID,
		Email:     email,
		Succeeded: true,
		Remember:  input.Remember,
		IP:        input.IP,
		At:        now,
	}); err != nil {
		return LoginResult{}, fmt.Errorf("publish login event: %w", err)
	}

	return result, nil
}

// failLogin records a failed attempt and publishes the event. Prior failures
// are never cleared, even by a later success; they simply age out of the window.
func (s *AuthService) failLogin(ctx context.Context, email string, ip *string, now time.Time) error {
	if err := s.attempts.Record(ctx, domain.LoginAttempt{
		ID:        uuid.NewString(),
		Email:     email,
		Succeeded: false,
		IP:        ip,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}

	if err := s.publisher.PublishLogin(ctx, domain.LoginEvent{
		EventID:   uuid.NewString(),
		Email:     email,
		Succeeded: false,
		IP:        ip,
		At:        now,
	}); err != nil {
		return fmt.Errorf("publish login event: %w", err)
	}

	return ErrInvalidCredentials
}

func (s *AuthService) mintSession(ctx context.Context, user domain.User, now time.Time) (domain.Session, error) {
	key, err := s.newToken(sessionKeyBytes)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session key: %w", err)
	}

	csrf, err := s.newToken(sessionKeyBytes)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate csrf token: %w", err)
	}

	session := domain.Session{
		Key:       key,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CSRFToken: csrf,
		LoginAt:   now,
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

func (s *AuthService) mintRememberToken(ctx context.Context, userID string, now time.Time) (string, error) {
	raw, err := s.newToken(rememberTokenSize)
	if err != nil {
		return "", fmt.Errorf("generate remember token: %w", err)
	}

	token := domain.RememberToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: security.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Session.RememberTTL),
	}

	if err := s.remember.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store remember token: %w", err)
	}

	return raw, nil
}

// Redeem exchanges a raw remember token for a fresh session. Unknown and
// expired tokens fail identically; expired rows are deleted on sight.
func (s *AuthService) Redeem(ctx context.Context, rawToken string) (LoginResult, error) {
	if rawToken == "" {
		return LoginResult{}, ErrInvalidRememberToken
	}

	hash := security.HashToken(rawToken)
	token, err := s.remember.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidRememberToken
		}
		return LoginResult{}, fmt.Errorf("lookup remember token: %w", err)
	}

	now := s.now()
	if token.IsExpired(now) {
		if err := s.remember.DeleteByHash(ctx, hash); err != nil {
			return LoginResult{}, fmt.Errorf("delete expired remember token: %w", err)
		}
		return LoginResult{}, ErrInvalidRememberToken
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidRememberToken
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.CanLogin() {
		return LoginResult{}, ErrInvalidRememberToken
	}

	session, err := s.mintSession(ctx, *user, now)
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{User: *user, Session: session}
	result.User.PasswordHash = ""
	return result, nil
}

// Session resolves a session key to its server-side record.
func (s *AuthService) Session(ctx context.Context, key string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	return session, nil
}

// Logout destroys the session and, when a raw remember token is presented,
// its durable counterpart. Both operations tolerate already-absent state.
func (s *AuthService) Logout(ctx context.Context, sessionKey, rawRememberToken string) error {
	if sessionKey != "" {
		if err := s.sessions.Delete(ctx, sessionKey); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	if rawRememberToken != "" {
		if err := s.remember.DeleteByHash(ctx, security.HashToken(rawRememberToken)); err != nil {
			return fmt.Errorf("delete remember token: %w", err)
		}
	}

	return nil
}

// PruneArtifacts removes expired remember tokens and login attempts older than
// the retention horizon. Meant to run periodically.
func (s *AuthService) PruneArtifacts(ctx context.Context) (tokens, attempts int, err error) {
	now := s.now()

	tokens, err = s.remember.DeleteExpired(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("delete expired remember tokens: %w", err)
	}

	attempts, err = s.attempts.DeleteOlderThan(ctx, now.Add(-attemptRetention))
	if err != nil {
		return tokens, 0, fmt.Errorf("delete stale login attempts: %w", err)
	}

	return tokens, attempts, nil
}
