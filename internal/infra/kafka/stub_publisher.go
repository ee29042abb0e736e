package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishLogin logs user.login events.
func (p *StubPublisher) PublishLogin(_ context.Context, event domain.LoginEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"email":      event.Email,
		"succeeded":  event.Succeeded,
		"remember":   event.Remember,
		"ip_address": event.IP,
		"at":         event.At,
	}
	p.logEvent("user.login", event.UserID, event.At, payload)
	return nil
}

// PublishPost logs post lifecycle events.
func (p *StubPublisher) PublishPost(_ context.Context, event domain.PostEvent) error {
	payload := map[string]any{
		"post_id":   event.PostID,
		"author_id": event.AuthorID,
		"slug":      event.Slug,
		"action":    event.Action,
		"at":        event.At,
	}
	p.logEvent("post."+event.Action, event.AuthorID, event.At, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
