package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

const (
	defaultSwapPageSize = 10
	maxSwapPageSize     = 100
)

// SwapRequestInput captures the payload for opening a swap.
type SwapRequestInput struct {
	RequestedItemID string
	OfferedItemID   *string
	Type            domain.SwapType
	Message         string
}

// SwapResponseInput captures the provider's decision on a pending swap.
type SwapResponseInput struct {
	SwapID string
	Accept bool
}

// ListSwapsInput captures the per-user query filters.
type ListSwapsInput struct {
	Role   string
	Status string
	Page   int
	Limit  int
}

// SwapService drives the swap lifecycle: request validation, the provider's
// accept/reject decision with transactional settlement, the per-user query
// facade and the embedded conversation.
type SwapService struct {
	users     port.UserRepository
	items     port.ItemRepository
	swaps     port.SwapRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewSwapService constructs SwapService.
func NewSwapService(users port.UserRepository, items port.ItemRepository, swaps port.SwapRepository, publisher port.EventPublisher, logger *zap.Logger) *SwapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwapService{users: users, items: items, swaps: swaps, publisher: publisher, logger: logger}
}

// Request validates and persists a pending swap. No points move and no item
// changes status at request time; redemption affordability is checked against
// the requester's current balance and re-checked at settlement.
func (s *SwapService) Request(ctx context.Context, externalID string, input SwapRequestInput) (*domain.Swap, error) {
	requester, err := s.activeUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, ErrInvalidSwapType
	}

	item, err := s.items.GetByID(ctx, input.RequestedItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("lookup requested item: %w", err)
	}
	if !item.Swappable() {
		return nil, ErrItemNotSwappable
	}
	if item.OwnerID == requester.ID {
		return nil, ErrSelfSwap
	}

	swap := domain.Swap{
		ID:              uuid.NewString(),
		RequesterID:     requester.ID,
		ProviderID:      item.OwnerID,
		RequestedItemID: item.ID,
		Type:            input.Type,
		Status:          domain.SwapStatusPending,
	}

	switch input.Type {
	case domain.SwapTypeDirect:
		if input.OfferedItemID == nil || strings.TrimSpace(*input.OfferedItemID) == "" {
			return nil, ErrOfferedItemRequired
		}
		offered, err := s.items.GetByID(ctx, *input.OfferedItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, fmt.Errorf("lookup offered item: %w", err)
		}
		if offered.OwnerID != requester.ID {
			return nil, ErrOfferedItemNotOwned
		}
		if !offered.Swappable() {
			return nil, ErrItemNotSwappable
		}
		swap.OfferedItemID = &offered.ID
	case domain.SwapTypePointRedemption:
		// Snapshot the price; later repricing of the item does not change
		// what this swap settles for.
		swap.PointsExchanged = item.PointValue
		if requester.Points < swap.PointsExchanged {
			return nil, ErrInsufficientPoints
		}
	}

	if msg := strings.TrimSpace(input.Message); msg != "" {
		swap.Messages = []domain.SwapMessage{{
			SenderID:  requester.ID,
			Content:   msg,
			Timestamp: time.Now().UTC(),
		}}
	}

	if err := s.swaps.Create(ctx, swap); err != nil {
		return nil, fmt.Errorf("create swap: %w", err)
	}

	created, err := s.swaps.GetByID(ctx, swap.ID)
	if err != nil {
		return nil, fmt.Errorf("reload swap: %w", err)
	}

	s.publishRequested(ctx, created)

	return created, nil
}

// Respond records the provider's decision. A rejection is terminal and has no
// side effects; an acceptance runs settlement inside one database transaction.
// Concurrent responses are serialized by a row lock on the swap: the loser
// observes a non-pending status and receives ErrSwapNotPending.
func (s *SwapService) Respond(ctx context.Context, externalID string, input SwapResponseInput) (*domain.Swap, error) {
	user, err := s.activeUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	swap, err := s.swaps.GetByID(ctx, input.SwapID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("lookup swap: %w", err)
	}

	if !domain.CanRespond(user.ID, swap) {
		return nil, ErrNotSwapProvider
	}
	if swap.Status != domain.SwapStatusPending {
		return nil, ErrSwapNotPending
	}

	if !input.Accept {
		rejected, err := s.swaps.Reject(ctx, swap.ID)
		if err != nil {
			return nil, s.mapResolveError(err)
		}
		s.publishResolved(ctx, rejected, "provider_rejected")
		return rejected, nil
	}

	settled, err := s.swaps.Settle(ctx, swap.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPoints):
			// The swap was flipped to rejected inside the settlement
			// transaction; the outcome is durable.
			if settled != nil {
				s.publishResolved(ctx, settled, "insufficient_points")
			}
			return nil, ErrInsufficientPoints
		case errors.Is(err, repository.ErrItemUnavailable):
			if settled != nil {
				s.publishResolved(ctx, settled, "item_unavailable")
			}
			return nil, ErrItemUnavailable
		default:
			return nil, s.mapResolveError(err)
		}
	}

	s.publishResolved(ctx, settled, "provider_accepted")
	return settled, nil
}

// ListForUser returns the swaps the user participates in, optionally narrowed
// by role and status, newest first. The second return value is the total
// matching count for pagination.
func (s *SwapService) ListForUser(ctx context.Context, externalID string, input ListSwapsInput) ([]domain.Swap, int, error) {
	user, err := s.activeUser(ctx, externalID)
	if err != nil {
		return nil, 0, err
	}

	filter := port.SwapFilter{UserID: user.ID}

	switch input.Role {
	case "":
	case string(port.SwapRoleRequester), string(port.SwapRoleProvider):
		filter.Role = port.SwapRole(input.Role)
	default:
		return nil, 0, ErrInvalidSwapRole
	}

	if input.Status != "" {
		status := domain.SwapStatus(input.Status)
		switch status {
		case domain.SwapStatusPending, domain.SwapStatusAccepted, domain.SwapStatusRejected,
			domain.SwapStatusCompleted, domain.SwapStatusCancelled:
			filter.Status = status
		default:
			return nil, 0, ErrInvalidSwapStatus
		}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultSwapPageSize
	}
	if limit > maxSwapPageSize {
		limit = maxSwapPageSize
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	swaps, err := s.swaps.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list swaps: %w", err)
	}
	total, err := s.swaps.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count swaps: %w", err)
	}

	return swaps, total, nil
}

// AddMessage appends a message to the swap's conversation. Only participants
// may write; content must be non-empty after trimming.
func (s *SwapService) AddMessage(ctx context.Context, externalID, swapID, content string) (*domain.Swap, error) {
	user, err := s.activeUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("lookup swap: %w", err)
	}
	if !domain.CanMessage(user.ID, swap) {
		return nil, ErrNotSwapParticipant
	}

	msg := domain.SwapMessage{
		SenderID:  user.ID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	updated, err := s.swaps.AppendMessage(ctx, swap.ID, msg)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("append message: %w", err)
	}

	if s.publisher != nil {
		event := domain.SwapMessageAddedEvent{
			EventID:  uuid.NewString(),
			SwapID:   swap.ID,
			SenderID: user.ID,
			SentAt:   msg.Timestamp,
		}
		if err := s.publisher.PublishSwapMessageAdded(ctx, event); err != nil {
			s.logger.Warn("publish swap message event failed", zap.String("swap_id", swap.ID), zap.Error(err))
		}
	}

	return updated, nil
}

func (s *SwapService) activeUser(ctx context.Context, externalID string) (*domain.User, error) {
	return lookupActiveUser(ctx, s.users, externalID)
}

func (s *SwapService) mapResolveError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrSwapNotFound
	case errors.Is(err, repository.ErrSwapNotPending):
		return ErrSwapNotPending
	default:
		return fmt.Errorf("resolve swap: %w", err)
	}
}

func (s *SwapService) publishRequested(ctx context.Context, swap *domain.Swap) {
	if s.publisher == nil {
		return
	}
	event := domain.SwapRequestedEvent{
		EventID:         uuid.NewString(),
		SwapID:          swap.ID,
		RequesterID:     swap.RequesterID,
		ProviderID:      swap.ProviderID,
		RequestedItemID: swap.RequestedItemID,
		OfferedItemID:   swap.OfferedItemID,
		SwapType:        string(swap.Type),
		PointsExchanged: swap.PointsExchanged,
		RequestedAt:     swap.CreatedAt,
	}
	if err := s.publisher.PublishSwapRequested(ctx, event); err != nil {
		s.logger.Warn("publish swap requested event failed", zap.String("swap_id", swap.ID), zap.Error(err))
	}
}

func (s *SwapService) publishResolved(ctx context.Context, swap *domain.Swap, reason string) {
	if s.publisher == nil {
		return
	}
	event := domain.SwapResolvedEvent{
		EventID:         uuid.NewString(),
		SwapID:          swap.ID,
		RequesterID:     swap.RequesterID,
		ProviderID:      swap.ProviderID,
		SwapType:        string(swap.Type),
		Status:          string(swap.Status),
		PointsExchanged: swap.PointsExchanged,
		Reason:          reason,
		ResolvedAt:      swap.UpdatedAt,
	}
	if err := s.publisher.PublishSwapResolved(ctx, event); err != nil {
		s.logger.Warn("publish swap resolved event failed", zap.String("swap_id", swap.ID), zap.Error(err))
	}
}
