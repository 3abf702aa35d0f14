package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
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

// PublishSwapRequested logs market.swap.requested events.
func (p *StubPublisher) PublishSwapRequested(_ context.Context, event domain.SwapRequestedEvent) error {
	payload := map[string]any{
		"swap_id":           event.SwapID,
		"requester_id":      event.RequesterID,
		"provider_id":       event.ProviderID,
		"requested_item_id": event.RequestedItemID,
		"offered_item_id":   event.OfferedItemID,
		"swap_type":         event.SwapType,
		"points_exchanged":  event.PointsExchanged,
		"requested_at":      event.RequestedAt,
		"metadata":          event.Metadata,
	}
	p.logEvent("market.swap.requested", event.RequesterID, event.RequestedAt, payload)
	return nil
}

// PublishSwapResolved logs market.swap.resolved events.
func (p *StubPublisher) PublishSwapResolved(_ context.Context, event domain.SwapResolvedEvent) error {
	payload := map[string]any{
		"swap_id":          event.SwapID,
		"requester_id":     event.RequesterID,
		"provider_id":      event.ProviderID,
		"swap_type":        event.SwapType,
		"status":           event.Status,
		"points_exchanged": event.PointsExchanged,
		"reason":           event.Reason,
		"resolved_at":      event.ResolvedAt,
		"metadata":         event.Metadata,
	}
	p.logEvent("market.swap.resolved", event.ProviderID, event.ResolvedAt, payload)
	return nil
}

// PublishSwapMessageAdded logs market.swap.message.added events.
func (p *StubPublisher) PublishSwapMessageAdded(_ context.Context, event domain.SwapMessageAddedEvent) error {
	payload := map[string]any{
		"swap_id":   event.SwapID,
		"sender_id": event.SenderID,
		"sent_at":   event.SentAt,
		"metadata":  event.Metadata,
	}
	p.logEvent("market.swap.message.added", event.SenderID, event.SentAt, payload)
	return nil
}

// PublishItemModerated logs market.item.moderated events.
func (p *StubPublisher) PublishItemModerated(_ context.Context, event domain.ItemModeratedEvent) error {
	payload := map[string]any{
		"item_id":      event.ItemID,
		"owner_id":     event.OwnerID,
		"status":       event.Status,
		"moderator_id": event.ModeratorID,
		"notes":        event.Notes,
		"moderated_at": event.ModeratedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("market.item.moderated", event.OwnerID, event.ModeratedAt, payload)
	return nil
}

// PublishUserProvisioned logs market.user.provisioned events.
func (p *StubPublisher) PublishUserProvisioned(_ context.Context, event domain.UserProvisionedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"external_id": event.ExternalID,
		"action":      event.Action,
		"occurred_at": event.OccurredAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("market.user.provisioned", event.UserID, event.OccurredAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
