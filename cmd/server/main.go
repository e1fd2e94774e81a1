package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock_valuation/internal/app/di"
	"stock_valuation/internal/app/router"
	"stock_valuation/internal/feature/stocks/adapters"
	"stock_valuation/internal/feature/stocks/adapters/finnhub"
	"stock_valuation/internal/feature/stocks/domain/valuation"
	"stock_valuation/internal/platform/db"
	healthhandler "stock_valuation/internal/platform/http/handler"
	"stock_valuation/internal/platform/http/middleware"
	jwtmw "stock_valuation/internal/platform/jwt"
	"stock_valuation/internal/platform/logger"
	infraredis "stock_valuation/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	if err := logger.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(db.LoadConfigFromEnv(), &adapters.StockModel{})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis（任意）
	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return err
	}
	rdb := di.NewOptionalRedis(ctx, redisCfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	finnhubCfg, err := finnhub.LoadConfig()
	if err != nil {
		return err
	}
	params, err := valuation.LoadParams()
	if err != nil {
		return err
	}
	jwtCfg, err := jwtmw.LoadConfig()
	if err != nil {
		return err
	}

	market := di.NewMarket(finnhubCfg, rdb, redisCfg.CacheTTL)
	stocks := di.NewStockHandler(gdb, market, params)
	r := router.NewRouter(stocks, healthhandler.Health(sqlDB), middleware.NewMetrics(), jwtCfg.Secret)

	srv := &http.Server{
		Addr:              getenv("SERVER_ADDR", ":8080"),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
