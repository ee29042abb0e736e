package port

import (
	"context"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
)

// EventPublisher publishes lifecycle events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishLogin(ctx context.Context, event domain.LoginEvent) error
	PublishPost(ctx context.Context, event domain.PostEvent) error
}
