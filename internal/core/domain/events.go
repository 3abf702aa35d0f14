package domain

import "time"

// SwapRequestedEvent represents the payload for market.swap.requested messages.
type SwapRequestedEvent struct {
	EventID         string
	SwapID          string
	RequesterID     string
	ProviderID      string
	RequestedItemID string
	OfferedItemID   *string
	SwapType        string
	PointsExchanged int
	RequestedAt     time.Time
	Metadata        map[string]any
}

// SwapResolvedEvent represents the payload for market.swap.resolved messages.
// Status carries the final state (completed or rejected); Reason distinguishes
// a provider rejection from a settlement-time auto-reject.
type SwapResolvedEvent struct {
	EventID         string
	SwapID          string
	RequesterID     string
	ProviderID      string
	SwapType        string
	Status          string
	PointsExchanged int
	Reason          string
	ResolvedAt      time.Time
	Metadata        map[string]any
}

// SwapMessageAddedEvent represents the payload for market.swap.message.added messages.
type SwapMessageAddedEvent struct {
	EventID  string
	SwapID   string
	SenderID string
	SentAt   time.Time
	Metadata map[string]any
}

// ItemModeratedEvent represents the payload for market.item.moderated messages.
type ItemModeratedEvent struct {
	EventID     string
	ItemID      string
	OwnerID     string
	Status      string
	ModeratorID string
	Notes       *string
	ModeratedAt time.Time
	Metadata    map[string]any
}

// UserProvisionedEvent represents the payload for market.user.provisioned messages.
// Action is one of created, updated, deactivated.
type UserProvisionedEvent struct {
	EventID    string
	UserID     string
	ExternalID string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]any
}
