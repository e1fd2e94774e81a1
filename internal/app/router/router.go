// Package router はアプリケーションのginルーティングを組み立てます。
package router

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stock_valuation/internal/feature/stocks/transport/handler"
	"stock_valuation/internal/platform/http/middleware"
	jwtmw "stock_valuation/internal/platform/jwt"
)

// NewRouter はミドルウェアとルートを登録したginエンジンを返します。
// jwtSecret が空でなければ、書き込み系のルートにBearerトークンを要求します。
func NewRouter(stocks *handler.StockHandler, health gin.HandlerFunc, metrics *middleware.Metrics, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), metrics.Middleware())
	// ブラウザのフロントエンドから呼び出せるようにする
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/stocks")
	{
		api.GET("", stocks.List)
		api.GET("/:id", stocks.Get)
		api.GET("/symbol/:symbol", stocks.GetBySymbol)
	}

	// 書き込み系のルート
	write := api.Group("")
	if jwtSecret != "" {
		write.Use(jwtmw.AuthRequired(jwtSecret))
	} else {
		slog.Warn("JWT_SECRET is not set, write endpoints are unauthenticated")
	}
	{
		write.POST("/auto/:symbol", stocks.CreateFromSymbol)
		write.POST("", stocks.Create)
		write.PUT("/:id", stocks.Update)
		write.PATCH("/:id", stocks.Update)
		write.DELETE("/:id", stocks.Delete)
		write.POST("/:id/refresh", stocks.Refresh)
	}

	return r
}
