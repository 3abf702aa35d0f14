package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
)

// DefaultStatsTTL bounds dashboard staleness when no TTL is configured.
const DefaultStatsTTL = 30 * time.Second

// AdminService serves the review queue and the dashboard aggregate.
type AdminService struct {
	users    port.UserRepository
	items    port.ItemRepository
	swaps    port.SwapRepository
	cache    port.StatsCache
	statsTTL time.Duration
	logger   *zap.Logger
}

// NewAdminService constructs AdminService. cache may be nil, in which case
// every stats request hits the database.
func NewAdminService(users port.UserRepository, items port.ItemRepository, swaps port.SwapRepository, cache port.StatsCache, statsTTL time.Duration, logger *zap.Logger) *AdminService {
	if statsTTL <= 0 {
		statsTTL = DefaultStatsTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: users, items: items, swaps: swaps, cache: cache, statsTTL: statsTTL, logger: logger}
}

// PendingItems returns the moderation queue, oldest submissions first so
// reviewers work in arrival order.
func (s *AdminService) PendingItems(ctx context.Context, externalID string, page, limit int) ([]domain.Item, int, error) {
	if _, err := requireAdmin(ctx, s.users, externalID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultItemPageSize
	}
	if limit > maxItemPageSize {
		limit = maxItemPageSize
	}

	filter := port.ItemFilter{
		Status:      domain.ItemStatusPending,
		ActiveOnly:  true,
		OldestFirst: true,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending items: %w", err)
	}
	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count pending items: %w", err)
	}
	return items, total, nil
}

// DashboardStats assembles the admin overview. The aggregate is cached for a
// short TTL; a stale read is acceptable for a dashboard.
func (s *AdminService) DashboardStats(ctx context.Context, externalID string) (*domain.DashboardStats, error) {
	if _, err := requireAdmin(ctx, s.users, externalID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	activeUsers, err := s.users.Count(ctx, port.UserFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	itemCounts, err := s.items.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	swapCounts, err := s.swaps.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count swaps: %w", err)
	}

	stats := domain.DashboardStats{
		ActiveUsers: activeUsers,
		Items: domain.ItemCounts{
			Pending:  itemCounts[domain.ItemStatusPending],
			Approved: itemCounts[domain.ItemStatusApproved],
			Rejected: itemCounts[domain.ItemStatusRejected],
			Swapped:  itemCounts[domain.ItemStatusSwapped],
		},
		Swaps: domain.SwapCounts{
			Pending:   swapCounts[domain.SwapStatusPending],
			Completed: swapCounts[domain.SwapStatusCompleted],
			Rejected:  swapCounts[domain.SwapStatusRejected],
		},
		GeneratedAt: time.Now().UTC(),
	}
	for _, n := range itemCounts {
		stats.Items.Total += n
	}
	for _, n := range swapCounts {
		stats.Swaps.Total += n
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, s.statsTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}

	return &stats, nil
}
