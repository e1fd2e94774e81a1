// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"stock_valuation/internal/api"
	"stock_valuation/internal/feature/stocks/domain"
	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/transport/http/dto"
)

// StockUsecase は銘柄評価レコード操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	CreateFromSymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	CreateManual(ctx context.Context, s *entity.Stock) (*entity.Stock, error)
	List(ctx context.Context) ([]entity.Stock, error)
	Get(ctx context.Context, id int64) (*entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Update(ctx context.Context, id int64, patch entity.StockPatch) (*entity.Stock, error)
	Delete(ctx context.Context, id int64) error
	Refresh(ctx context.Context, id int64) (*entity.Stock, error)
}

// StockHandler は銘柄評価レコードのHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// CreateFromSymbol は外部APIのデータから銘柄を評価して登録します。
//
// POST /api/stocks/auto/:symbol
func (h *StockHandler) CreateFromSymbol(c *gin.Context) {
	s, err := h.uc.CreateFromSymbol(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("stock created from market data", "symbol", s.Symbol, "id", s.ID)
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// Create は利用者が入力した値で銘柄を登録します。
//
// POST /api/stocks
func (h *StockHandler) Create(c *gin.Context) {
	var req api.StockCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create stock validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Code: api.CodeInvalidInput})
		return
	}

	s, err := h.uc.CreateManual(c.Request.Context(), dto.ToEntity(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("stock created", "symbol", s.Symbol, "id", s.ID)
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// List は全銘柄をシンボル順で返します。
//
// GET /api/stocks
func (h *StockHandler) List(c *gin.Context) {
	stocks, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(stocks))
}

// Get はIDで銘柄を返します。
//
// GET /api/stocks/:id
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	s, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// GetBySymbol はシンボルで銘柄を返します。
//
// GET /api/stocks/symbol/:symbol
func (h *StockHandler) GetBySymbol(c *gin.Context) {
	s, err := h.uc.GetBySymbol(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Update は指定されたフィールドのみを更新します。PUTとPATCHの両方で使用します。
//
// PUT|PATCH /api/stocks/:id
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req api.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update stock validation failed", "error", err, "id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Code: api.CodeInvalidInput})
		return
	}

	s, err := h.uc.Update(c.Request.Context(), id, dto.ToPatch(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Delete は銘柄を削除します。
//
// DELETE /api/stocks/:id
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	slog.Info("stock deleted", "id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Stock deleted successfully"})
}

// Refresh は株価を取得し直して評価を再計算します。
//
// POST /api/stocks/:id/refresh
func (h *StockHandler) Refresh(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	s, err := h.uc.Refresh(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// bindID はパスパラメータのidをint64として取り出します。
// 失敗した場合は400を書き込み、falseを返します。
func bindID(c *gin.Context) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id", Code: api.CodeInvalidInput})
		return 0, false
	}
	return id, true
}

// writeError はドメインエラーをHTTPステータスとエラーコードに変換して書き込みます。
func (h *StockHandler) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("stock request failed", "error", err, "method", c.Request.Method, "path", c.FullPath())
		msg = "internal server error"
	}
	c.JSON(status, api.ErrorResponse{Error: msg, Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, api.CodeNotFound
	case errors.Is(err, domain.ErrDuplicateSymbol):
		return http.StatusConflict, api.CodeDuplicateSymbol
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusNotFound, api.CodeDataUnavailable
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, api.CodeInvalidInput
	default:
		return http.StatusInternalServerError, api.CodeInternal
	}
}
