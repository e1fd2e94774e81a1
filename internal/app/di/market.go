// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	goredis "github.com/redis/go-redis/v9"

	"stock_valuation/internal/feature/stocks/adapters/finnhub"
	"stock_valuation/internal/feature/stocks/usecase"
	"stock_valuation/internal/platform/cache"
	infrahttp "stock_valuation/internal/platform/http"
)

// NewMarket creates the Finnhub gateway with its HTTP client.
// When rdb is non-nil the gateway is wrapped in a Redis read-through cache.
func NewMarket(cfg finnhub.Config, rdb *goredis.Client, cacheTTL time.Duration) usecase.MarketDataGateway {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	market := finnhub.NewMarket(cfg, httpClient)
	if rdb == nil {
		return market
	}
	return cache.NewCachingMarketData(rdb, cacheTTL, market, "marketdata")
}
