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

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/infra/config"
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

// PublishSwapRequested publishes market.swap.requested events.
func (p *EventPublisher) PublishSwapRequested(ctx context.Context, event domain.SwapRequestedEvent) error {
	payload := struct {
		SwapID          string         `json:"swap_id"`
		RequesterID     string         `json:"requester_id"`
		ProviderID      string         `json:"provider_id"`
		RequestedItemID string         `json:"requested_item_id"`
		OfferedItemID   *string        `json:"offered_item_id,omitempty"`
		SwapType        string         `json:"swap_type"`
		PointsExchanged int            `json:"points_exchanged"`
		RequestedAt     time.Time      `json:"requested_at"`
		Metadata        map[string]any `json:"metadata,omitempty"`
	}{
		SwapID:          event.SwapID,
		RequesterID:     event.RequesterID,
		ProviderID:      event.ProviderID,
		RequestedItemID: event.RequestedItemID,
		OfferedItemID:   event.OfferedItemID,
		SwapType:        event.SwapType,
		PointsExchanged: event.PointsExchanged,
		RequestedAt:     event.RequestedAt.UTC(),
		Metadata:        event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.swap.requested", event.RequesterID, event.RequestedAt, payload)
}

// PublishSwapResolved publishes market.swap.resolved events.
func (p *EventPublisher) PublishSwapResolved(ctx context.Context, event domain.SwapResolvedEvent) error {
	payload := struct {
		SwapID          string         `json:"swap_id"`
		RequesterID     string         `json:"requester_id"`
		ProviderID      string         `json:"provider_id"`
		SwapType        string         `json:"swap_type"`
		Status          string         `json:"status"`
		PointsExchanged int            `json:"points_exchanged"`
		Reason          string         `json:"reason,omitempty"`
		ResolvedAt      time.Time      `json:"resolved_at"`
		Metadata        map[string]any `json:"metadata,omitempty"`
	}{
		SwapID:          event.SwapID,
		RequesterID:     event.RequesterID,
		ProviderID:      event.ProviderID,
		SwapType:        event.SwapType,
		Status:          event.Status,
		PointsExchanged: event.PointsExchanged,
		Reason:          event.Reason,
		ResolvedAt:      event.ResolvedAt.UTC(),
		Metadata:        event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.swap.resolved", event.ProviderID, event.ResolvedAt, payload)
}

// PublishSwapMessageAdded publishes market.swap.message.added events.
func (p *EventPublisher) PublishSwapMessageAdded(ctx context.Context, event domain.SwapMessageAddedEvent) error {
	payload := struct {
		SwapID   string         `json:"swap_id"`
		SenderID string         `json:"sender_id"`
		SentAt   time.Time      `json:"sent_at"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}{
		SwapID:   event.SwapID,
		SenderID: event.SenderID,
		SentAt:   event.SentAt.UTC(),
		Metadata: event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.swap.message.added", event.SenderID, event.SentAt, payload)
}

// PublishItemModerated publishes market.item.moderated events.
func (p *EventPublisher) PublishItemModerated(ctx context.Context, event domain.ItemModeratedEvent) error {
	payload := struct {
		ItemID      string         `json:"item_id"`
		OwnerID     string         `json:"owner_id"`
		Status      string         `json:"status"`
		ModeratorID string         `json:"moderator_id"`
		Notes       *string        `json:"notes,omitempty"`
		ModeratedAt time.Time      `json:"moderated_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ItemID:      event.ItemID,
		OwnerID:     event.OwnerID,
		Status:      event.Status,
		ModeratorID: event.ModeratorID,
		Notes:       event.Notes,
		ModeratedAt: event.ModeratedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.item.moderated", event.OwnerID, event.ModeratedAt, payload)
}

// PublishUserProvisioned publishes market.user.provisioned events.
func (p *EventPublisher) PublishUserProvisioned(ctx context.Context, event domain.UserProvisionedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		ExternalID string         `json:"external_id"`
		Action     string         `json:"action"`
		OccurredAt time.Time      `json:"occurred_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		ExternalID: event.ExternalID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.user.provisioned", event.UserID, event.OccurredAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
