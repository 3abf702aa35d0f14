package port

import (
	"context"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// ItemFilter narrows catalog queries. Zero values mean "no constraint".
type ItemFilter struct {
	OwnerID     string
	Status      domain.ItemStatus
	Category    string
	Size        string
	Condition   string
	Search      string
	ActiveOnly  bool
	OldestFirst bool
	Limit       int
	Offset      int
}

// ItemRepository exposes persistence behavior for listings.
type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, item domain.Item) error
	Moderate(ctx context.Context, id string, status domain.ItemStatus, notes *string) (*domain.Item, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	Count(ctx context.Context, filter ItemFilter) (int, error)
	CountByStatus(ctx context.Context) (map[domain.ItemStatus]int, error)
}
