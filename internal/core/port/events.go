package port

import (
	"context"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishSwapRequested(ctx context.Context, event domain.SwapRequestedEvent) error
	PublishSwapResolved(ctx context.Context, event domain.SwapResolvedEvent) error
	PublishSwapMessageAdded(ctx context.Context, event domain.SwapMessageAddedEvent) error
	PublishItemModerated(ctx context.Context, event domain.ItemModeratedEvent) error
	PublishUserProvisioned(ctx context.Context, event domain.UserProvisionedEvent) error
}
