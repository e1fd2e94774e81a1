// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_valuation/internal/api"
)

// Pinger はデータベース接続の疎通確認ができる型です（*sql.DB が満たします）。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// pingTimeout はヘルスチェック時のDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理するハンドラーを返します。
// db が nil でなければ疎通確認を行い、失敗した場合は503を返します。
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		dbStatus := ""
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check: database ping failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable", Database: "down"})
				return
			}
			dbStatus = "up"
		}

		// GET/HEAD/OPTIONSリクエストに対して200または204を返す
		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Database: dbStatus})
		}
	}
}
