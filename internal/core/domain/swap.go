package domain

import "time"

// SwapType distinguishes the two exchange modes.
type SwapType string

const (
	// SwapTypeDirect trades one approved item for another; no points move.
	SwapTypeDirect SwapType = "direct_swap"
	// SwapTypePointRedemption spends the requester's points on the item.
	SwapTypePointRedemption SwapType = "point_redemption"
)

// IsValid reports whether the swap type is one of the known values.
func (t SwapType) IsValid() bool {
	return t == SwapTypeDirect || t == SwapTypePointRedemption
}

// SwapStatus enumerates lifecycle states of a swap.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusRejected || s == SwapStatusCompleted || s == SwapStatusCancelled
}

// CanTransition reports whether a swap may move from one status to another.
// The lifecycle only advances: pending resolves to accepted, rejected or
// cancelled; accepted settles to completed, or falls back to rejected when
// settlement-time revalidation fails.
func CanTransition(from, to SwapStatus) bool {
	switch from {
	case SwapStatusPending:
		return to == SwapStatusAccepted || to == SwapStatusRejected || to == SwapStatusCancelled
	case SwapStatusAccepted:
		return to == SwapStatusCompleted || to == SwapStatusRejected
	default:
		return false
	}
}

// SwapMessage is one entry of the conversation embedded on a swap.
type SwapMessage struct {
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Swap mirrors the persisted representation in the market.swaps table.
// PointsExchanged snapshots the requested item's point value at request
// time; later repricing of the item does not affect the swap.
type Swap struct {
	ID              string
	RequesterID     string
	ProviderID      string
	RequestedItemID string
	OfferedItemID   *string
	Type            SwapType
	PointsExchanged int
	Status          SwapStatus
	Messages        []SwapMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanRespond reports whether the user may accept or reject the swap.
// Only the provider decides; the requester waits.
func CanRespond(userID string, s *Swap) bool {
	return s.ProviderID == userID
}

// CanMessage reports whether the user may read or append messages.
func CanMessage(userID string, s *Swap) bool {
	return s.RequesterID == userID || s.ProviderID == userID
}
