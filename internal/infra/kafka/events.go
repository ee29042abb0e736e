package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishLogin publishes user.login events for both successful and failed attempts.
func (p *EventPublisher) PublishLogin(ctx context.Context, event domain.LoginEvent) error {
	payload := struct {
		UserID    string    `json:"user_id,omitempty"`
		Email     string    `json:"email"`
		Succeeded bool      `json:"succeeded"`
		Remember  bool      `json:"remember"`
		IPAddress *string   `json:"ip_address,omitempty"`
		At        time.Time `json:"at"`
	}{
		UserID:    event.UserID,
		Email:     event.Email,
		Succeeded: event.Succeeded,
		Remember:  event.Remember,
		IPAddress: event.IP,
		At:        event.At.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.login", event.UserID, event.At, payload)
}

// PublishPost publishes post.created, post.updated and post.deleted events.
func (p *EventPublisher) PublishPost(ctx context.Context, event domain.PostEvent) error {
	payload := struct {
		PostID   string    `json:"post_id"`
		AuthorID string    `json:"author_id"`
		Slug     string    `json:"slug"`
		Action   string    `json:"action"`
		At       time.Time `json:"at"`
	}{
		PostID:   event.PostID,
		AuthorID: event.AuthorID,
		Slug:     event.Slug,
		Action:   event.Action,
		At:       event.At.UTC(),
	}

	return p.publish(ctx, event.EventID, "post."+event.Action, event.AuthorID, event.At, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
