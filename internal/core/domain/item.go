package domain

import "time"

// ItemStatus enumerates listing states. Only approved items participate in
// swaps; swapped and inactive are terminal.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusRejected ItemStatus = "rejected"
	ItemStatusSwapped  ItemStatus = "swapped"
	ItemStatusInactive ItemStatus = "inactive"
)

// ModerationStatuses are the states an admin may assign during review.
var ModerationStatuses = map[ItemStatus]bool{
	ItemStatusPending:  true,
	ItemStatusApproved: true,
	ItemStatusRejected: true,
}

// ItemCategories are the accepted garment categories.
var ItemCategories = map[string]bool{
	"tops":        true,
	"bottoms":     true,
	"dresses":     true,
	"outerwear":   true,
	"shoes":       true,
	"accessories": true,
	"activewear":  true,
	"formal":      true,
}

// ItemConditions are the accepted wear grades.
var ItemConditions = map[string]bool{
	"new":      true,
	"like_new": true,
	"good":     true,
	"fair":     true,
	"worn":     true,
}

// MinPointValue is the floor for a listing's point price.
const MinPointValue = 1

// DefaultPointValue is assigned when the lister does not price the item.
const DefaultPointValue = 10

// Item mirrors the persisted representation in the market.items table.
type Item struct {
	ID              string
	OwnerID         string
	Title           string
	Description     string
	Category        string
	GarmentType     string
	Size            string
	Condition       string
	Images          []string
	Tags            []string
	PointValue      int
	Status          ItemStatus
	ModerationNotes *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Swappable reports whether the item may be requested or offered in a swap:
// it must be active and moderation-approved.
func (i *Item) Swappable() bool {
	return i.IsActive && i.Status == ItemStatusApproved
}
