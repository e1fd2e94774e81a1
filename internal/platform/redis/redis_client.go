// Package redis builds the optional Redis client used for market data caching.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings and the cache TTL.
type Config struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

// Enabled reports whether a Redis host was configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port, defaulting the port to 6379.
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return c.Host + ":" + port
}

// LoadConfig は環境変数からRedisの設定を読み込みます。
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
		CacheTTL: 5 * time.Minute,
	}
	if raw := os.Getenv("MARKET_CACHE_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse MARKET_CACHE_TTL %q: %w", raw, err)
		}
		cfg.CacheTTL = d
	}
	return cfg, nil
}

// NewRedisClient は接続を確認したうえでRedisクライアントを返します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
