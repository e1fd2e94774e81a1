// Command refresh re-fetches market data for every tracked stock and stores the new valuation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock_valuation/internal/app/di"
	"stock_valuation/internal/feature/stocks/adapters"
	"stock_valuation/internal/feature/stocks/adapters/finnhub"
	"stock_valuation/internal/feature/stocks/domain/valuation"
	"stock_valuation/internal/platform/db"
	"stock_valuation/internal/platform/logger"
	infraredis "stock_valuation/internal/platform/redis"
	"stock_valuation/internal/shared/ratelimiter"
)

// defaultRatePerMinute は1分あたりの銘柄取得数の既定値です（1銘柄で3回APIを呼び出します）。
const defaultRatePerMinute = 20

func main() {
	if err := run(); err != nil {
		slog.Error("refresh failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	if err := logger.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rate, err := ratePerMinute()
	if err != nil {
		return err
	}

	gdb, err := db.Open(db.LoadConfigFromEnv(), &adapters.StockModel{})
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return err
	}
	rdb := di.NewOptionalRedis(ctx, redisCfg)
	if rdb != nil {
		defer rdb.Close()
	}

	finnhubCfg, err := finnhub.LoadConfig()
	if err != nil {
		return err
	}
	params, err := valuation.LoadParams()
	if err != nil {
		return err
	}

	market := di.NewMarket(finnhubCfg, rdb, redisCfg.CacheTTL)
	uc := di.NewStockUsecase(gdb, market, params, ratelimiter.NewRateLimiter(rate, time.Minute))

	start := time.Now()
	summary, err := uc.RefreshAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("refresh finished",
		"total", summary.Total,
		"updated", summary.Updated,
		"failed", summary.Failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d stocks failed to refresh", summary.Failed, summary.Total)
	}
	return nil
}

func ratePerMinute() (int, error) {
	raw := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if raw == "" {
		return defaultRatePerMinute, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse RATE_LIMIT_PER_MINUTE %q: %w", raw, err)
	}
	return n, nil
}
