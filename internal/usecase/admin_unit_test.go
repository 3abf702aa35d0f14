package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

func adminFixture() (*userRepoMock, domain.User) {
	admin := domain.User{ID: "admin-1", ExternalID: "ext-admin", Role: domain.RoleAdmin, IsActive: true}
	return newUserRepoMock(admin), admin
}

func TestAdminPendingItemsOrderedOldestFirst(t *testing.T) {
	users, admin := adminFixture()
	items := newItemRepoMock()
	items.listResult = []domain.Item{{ID: "item-1"}}
	items.countResult = 4
	service := NewAdminService(users, items, newSwapRepoMock(), nil, 0, nil)

	result, total, err := service.PendingItems(context.Background(), admin.ExternalID, 1, 2)
	if err != nil {
		t.Fatalf("PendingItems returned error: %v", err)
	}
	if len(result) != 1 || total != 4 {
		t.Fatalf("unexpected result: %d items, total %d", len(result), total)
	}
	f := items.listFilter
	if f == nil || f.Status != domain.ItemStatusPending || !f.OldestFirst || !f.ActiveOnly {
		t.Fatalf("review queue filter mismatch: %+v", f)
	}
}

func TestAdminPendingItemsRequiresAdmin(t *testing.T) {
	user := domain.User{ID: "user-1", ExternalID: "ext-1", Role: domain.RoleUser, IsActive: true}
	users := newUserRepoMock(user)
	service := NewAdminService(users, newItemRepoMock(), newSwapRepoMock(), nil, 0, nil)

	if _, _, err := service.PendingItems(context.Background(), user.ExternalID, 1, 10); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAdminDashboardStatsAssembles(t *testing.T) {
	users, admin := adminFixture()
	users.countResult = 9
	items := newItemRepoMock()
	items.counts = map[domain.ItemStatus]int{
		domain.ItemStatusPending:  2,
		domain.ItemStatusApproved: 5,
		domain.ItemStatusSwapped:  3,
	}
	swaps := newSwapRepoMock()
	swaps.counts = map[domain.SwapStatus]int{
		domain.SwapStatusPending:   1,
		domain.SwapStatusCompleted: 6,
		domain.SwapStatusRejected:  2,
	}
	cache := &statsCacheMock{}
	service := NewAdminService(users, items, swaps, cache, 45*time.Second, nil)

	stats, err := service.DashboardStats(context.Background(), admin.ExternalID)
	if err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if stats.ActiveUsers != 9 {
		t.Fatalf("expected 9 active users, got %d", stats.ActiveUsers)
	}
	if stats.Items.Total != 10 || stats.Items.Approved != 5 {
		t.Fatalf("unexpected item counts: %+v", stats.Items)
	}
	if stats.Swaps.Total != 9 || stats.Swaps.Completed != 6 {
		t.Fatalf("unexpected swap counts: %+v", stats.Swaps)
	}
	if stats.GeneratedAt.IsZero() {
		t.Fatalf("expected GeneratedAt to be set")
	}
	if len(cache.set) != 1 || cache.setTTLs[0] != 45*time.Second {
		t.Fatalf("expected one cache write with configured TTL, got %+v", cache.setTTLs)
	}
}

func TestAdminDashboardStatsServedFromCache(t *testing.T) {
	users, admin := adminFixture()
	cached := domain.DashboardStats{ActiveUsers: 3, GeneratedAt: time.Now().UTC()}
	cache := &statsCacheMock{cached: &cached}
	items := newItemRepoMock()
	swaps := newSwapRepoMock()
	service := NewAdminService(users, items, swaps, cache, 0, nil)

	stats, err := service.DashboardStats(context.Background(), admin.ExternalID)
	if err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if stats.ActiveUsers != 3 {
		t.Fatalf("expected cached aggregate, got %+v", stats)
	}
	if len(cache.set) != 0 {
		t.Fatalf("cache hit must not rewrite the entry")
	}
}

func TestAdminDashboardStatsCacheFailureFallsThrough(t *testing.T) {
	users, admin := adminFixture()
	users.countResult = 2
	cache := &statsCacheMock{getErr: errBoom}
	items := newItemRepoMock()
	items.counts = map[domain.ItemStatus]int{}
	swaps := newSwapRepoMock()
	swaps.counts = map[domain.SwapStatus]int{}
	service := NewAdminService(users, items, swaps, cache, 0, nil)

	stats, err := service.DashboardStats(context.Background(), admin.ExternalID)
	if err != nil {
		t.Fatalf("a cache failure must not fail the request: %v", err)
	}
	if stats.ActiveUsers != 2 {
		t.Fatalf("expected database fallback, got %+v", stats)
	}
}
