package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
)

const defaultStatsKey = "rewear:admin:stats"

// StatsCacheRepository holds the serialized dashboard aggregate under a
// single key with a short TTL.
type StatsCacheRepository struct {
	client *redis.Client
	key    string
}

// NewStatsCacheRepository constructs the cache. An empty key falls back to
// the default.
func NewStatsCacheRepository(client *redis.Client, key string) *StatsCacheRepository {
	if key == "" {
		key = defaultStatsKey
	}
	return &StatsCacheRepository{client: client, key: key}
}

// Get returns the cached aggregate; the bool reports a hit.
func (r *StatsCacheRepository) Get(ctx context.Context) (*domain.DashboardStats, bool, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, true, nil
}

// Set stores the aggregate with the provided TTL.
func (r *StatsCacheRepository) Set(ctx context.Context, stats domain.DashboardStats, ttl time.Duration) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

var _ port.StatsCache = (*StatsCacheRepository)(nil)
