package port

import (
	"context"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// SwapRole selects which side of a swap a user query filters on.
type SwapRole string

const (
	SwapRoleRequester SwapRole = "requester"
	SwapRoleProvider  SwapRole = "provider"
)

// SwapFilter narrows per-user swap queries. Role and Status are optional;
// results are always restricted to swaps the user participates in.
type SwapFilter struct {
	UserID string
	Role   SwapRole
	Status domain.SwapStatus
	Limit  int
	Offset int
}

// SwapRepository exposes persistence behavior for swaps, including the
// transactional resolution path.
type SwapRepository interface {
	Create(ctx context.Context, swap domain.Swap) error
	GetByID(ctx context.Context, id string) (*domain.Swap, error)
	List(ctx context.Context, filter SwapFilter) ([]domain.Swap, error)
	Count(ctx context.Context, filter SwapFilter) (int, error)

	// Reject flips a pending swap to rejected. The compare-and-set on the
	// pending status happens inside the statement; a swap already resolved
	// surfaces repository.ErrSwapNotPending.
	Reject(ctx context.Context, id string) (*domain.Swap, error)

	// Settle accepts a pending swap and executes settlement in one
	// transaction: revalidates funds and item availability under row locks,
	// transfers points, flips item statuses and completes the swap. A
	// settlement-time shortfall or unavailable item leaves the swap rejected
	// and returns the corresponding sentinel alongside the updated swap.
	Settle(ctx context.Context, id string) (*domain.Swap, error)

	// AppendMessage appends one message to the swap's embedded conversation
	// and returns the updated swap.
	AppendMessage(ctx context.Context, id string, msg domain.SwapMessage) (*domain.Swap, error)

	CountByStatus(ctx context.Context) (map[domain.SwapStatus]int, error)
}
