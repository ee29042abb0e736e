package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/repository"
)

const (
	defaultSessionPrefix = "session"

	fieldUserID   = "user_id"
	fieldUsername = "username"
	fieldRole     = "role"
	fieldCSRF     = "csrf_token"
	fieldLoginAt  = "login_at"
)

// SessionStore keeps ephemeral login sessions in Redis hashes with a TTL.
// Losing an entry only forces a re-login, so no durability is required.
type SessionStore struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore constructs a session store with the provided key prefix and TTL.
func NewSessionStore(client *red.Client, keyPrefix string, ttl time.Duration) *SessionStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &SessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Put stores the session under its key and applies the TTL.
func (s *SessionStore) Put(ctx context.Context, session domain.Session) error {
	if session.Key == "" {
		return fmt.Errorf("session key is required")
	}

	key := s.key(session.Key)
	fields := map[string]any{
		fieldUserID:   session.UserID,
		fieldUsername: session.Username,
		fieldRole:     string(session.Role),
		fieldCSRF:     session.CSRFToken,
		fieldLoginAt:  session.LoginAt.UTC().Format(time.RFC3339Nano),
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store session: %w", err)
	}

	return nil
}

// Get retrieves a session by key. Missing or expired keys surface as
// repository.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, key string) (*domain.Session, error) {
	if key == "" {
		return nil, repository.ErrNotFound
	}

	values, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis fetch session: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	loginAt, err := time.Parse(time.RFC3339Nano, values[fieldLoginAt])
	if err != nil {
		return nil, fmt.Errorf("parse session login time: %w", err)
	}

	return &domain.Session{
		Key:       key,
		UserID:    values[fieldUserID],
		Username:  values[fieldUsername],
		Role:      domain.Role(values[fieldRole]),
		CSRFToken: values[fieldCSRF],
		LoginAt:   loginAt,
	}, nil
}

// Delete destroys the session. Deleting an absent key is not an error.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}

	return nil
}

func (s *SessionStore) key(sessionKey string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionKey)
}

var _ port.SessionStore = (*SessionStore)(nil)
