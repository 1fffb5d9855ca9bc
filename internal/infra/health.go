package infra

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Dependency states reported by Health.
const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Health pings the configured stores. A nil store reports disabled.
func Health(ctx context.Context, db *pgxpool.Pool, cache *redis.Client) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := map[string]string{"database": StatusDisabled, "cache": StatusDisabled}
	if db != nil {
		out["database"] = StatusUp
		if err := db.Ping(ctx); err != nil {
			out["database"] = StatusDown
		}
	}
	if cache != nil {
		out["cache"] = StatusUp
		if err := cache.Ping(ctx).Err(); err != nil {
			out["cache"] = StatusDown
		}
	}
	return out
}

// Healthy reports whether no dependency is down.
func Healthy(status map[string]string) bool {
	for _, s := range status {
		if s == StatusDown {
			return false
		}
	}
	return true
}
