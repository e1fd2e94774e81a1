package di

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_valuation/internal/feature/stocks/adapters/finnhub"
	"stock_valuation/internal/feature/stocks/domain/valuation"
	"stock_valuation/internal/platform/cache"
	infraredis "stock_valuation/internal/platform/redis"
)

func TestNewMarket(t *testing.T) {
	t.Parallel()

	cfg := finnhub.Config{APIKey: "key", BaseURL: finnhub.DefaultBaseURL, Timeout: time.Second}

	assert.IsType(t, &finnhub.Market{}, NewMarket(cfg, nil, time.Minute))

	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &cache.CachingMarketData{}, NewMarket(cfg, rdb, time.Minute))
}

func TestNewStockHandler(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := finnhub.Config{BaseURL: finnhub.DefaultBaseURL, Timeout: time.Second}
	h := NewStockHandler(db, NewMarket(cfg, nil, 0), valuation.DefaultParams())
	assert.NotNil(t, h)
}

func TestNewOptionalRedis_Disabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewOptionalRedis(context.Background(), infraredis.Config{}))
}

func TestNewOptionalRedis_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Nil(t, NewOptionalRedis(ctx, infraredis.Config{Host: "127.0.0.1", Port: "1"}))
}
