package di

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	infraredis "stock_valuation/internal/platform/redis"
)

// NewOptionalRedis returns a connected client, or nil when Redis is not configured or unreachable.
// The application runs without the market data cache in the nil case.
func NewOptionalRedis(ctx context.Context, cfg infraredis.Config) *goredis.Client {
	if !cfg.Enabled() {
		slog.Info("REDIS_HOST is not set, running without market data cache")
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, running without market data cache", "error", err)
		return nil
	}
	return rdb
}
