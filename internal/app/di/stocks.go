package di

import (
	"gorm.io/gorm"

	"stock_valuation/internal/feature/stocks/adapters"
	"stock_valuation/internal/feature/stocks/domain/valuation"
	"stock_valuation/internal/feature/stocks/transport/handler"
	"stock_valuation/internal/feature/stocks/usecase"
	"stock_valuation/internal/shared/ratelimiter"
)

// NewStockUsecase wires the gorm repository and the market gateway into the stocks use case.
// limiter may be nil when no batch refresh runs.
func NewStockUsecase(db *gorm.DB, market usecase.MarketDataGateway, params valuation.Params, limiter ratelimiter.RateLimiterInterface) *usecase.StockUsecase {
	return usecase.NewStockUsecase(adapters.NewStockRepository(db), market, params, limiter)
}

// NewStockHandler creates the HTTP handler for the stocks feature.
func NewStockHandler(db *gorm.DB, market usecase.MarketDataGateway, params valuation.Params) *handler.StockHandler {
	return handler.NewStockHandler(NewStockUsecase(db, market, params, nil))
}
