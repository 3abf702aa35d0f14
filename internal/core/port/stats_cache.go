package port

import (
	"context"
	"time"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// StatsCache holds the admin dashboard aggregate for a short TTL. A miss is
// signalled by the bool, not an error.
type StatsCache interface {
	Get(ctx context.Context) (*domain.DashboardStats, bool, error)
	Set(ctx context.Context, stats domain.DashboardStats, ttl time.Duration) error
}
