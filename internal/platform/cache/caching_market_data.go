// Package cache provides caching decorators for gateway interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/usecase"
)

// DefaultTTL is used when a non-positive TTL is given.
const DefaultTTL = 5 * time.Minute

// CachingMarketData decorates a MarketDataGateway with Redis caching.
// Only successful lookups are cached; failures always reach the provider again.
// Redis errors never fail a lookup, the decorator falls back to the inner gateway.
type CachingMarketData struct {
	inner     usecase.MarketDataGateway
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var (
	_ usecase.MarketDataGateway    = (*CachingMarketData)(nil)
	_ usecase.MarketDataInvalidator = (*CachingMarketData)(nil)
)

// NewCachingMarketData decorates a MarketDataGateway with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "marketdata".
func NewCachingMarketData(rdb *redis.Client, ttl time.Duration, inner usecase.MarketDataGateway, namespace string) *CachingMarketData {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "marketdata"
	}
	return &CachingMarketData{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Lookup returns cached market data when present, otherwise asks the inner gateway.
func (c *CachingMarketData) Lookup(ctx context.Context, symbol string) (*entity.MarketData, error) {
	if c.rdb == nil {
		return c.inner.Lookup(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out entity.MarketData
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("market data cache read failed", "key", key, "error", err)
	}

	// 2) Fallback to the provider
	out, err := c.inner.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("market data cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// Invalidate drops the cached entry for symbol so the next lookup hits the provider.
func (c *CachingMarketData) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(symbol)).Err()
}

// cacheKey generates a cache key for a symbol.
func (c *CachingMarketData) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(entity.NormalizeSymbol(symbol)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
