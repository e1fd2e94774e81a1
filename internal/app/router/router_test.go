package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/transport/handler"
	"stock_valuation/internal/platform/http/middleware"
	jwtmw "stock_valuation/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubUsecase は常に同じレコードを返すStockUsecaseです。
type stubUsecase struct{}

func (stubUsecase) record() *entity.Stock {
	return &entity.Stock{ID: 1, Symbol: "AAPL", LastUpdated: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (u stubUsecase) CreateFromSymbol(context.Context, string) (*entity.Stock, error) {
	return u.record(), nil
}

func (u stubUsecase) CreateManual(context.Context, *entity.Stock) (*entity.Stock, error) {
	return u.record(), nil
}

func (u stubUsecase) List(context.Context) ([]entity.Stock, error) {
	return []entity.Stock{*u.record()}, nil
}

func (u stubUsecase) Get(context.Context, int64) (*entity.Stock, error) { return u.record(), nil }

func (u stubUsecase) GetBySymbol(context.Context, string) (*entity.Stock, error) {
	return u.record(), nil
}

func (u stubUsecase) Update(context.Context, int64, entity.StockPatch) (*entity.Stock, error) {
	return u.record(), nil
}

func (stubUsecase) Delete(context.Context, int64) error { return nil }

func (u stubUsecase) Refresh(context.Context, int64) (*entity.Stock, error) { return u.record(), nil }

func newTestRouter(secret string) *gin.Engine {
	health := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	return NewRouter(handler.NewStockHandler(stubUsecase{}), health, middleware.NewMetrics(), secret)
}

type route struct {
	method string
	path   string
	body   string
	status int
}

var writeRoutes = []route{
	{http.MethodPost, "/api/stocks/auto/aapl", "", http.StatusCreated},
	{http.MethodPost, "/api/stocks", `{"symbol":"AAPL"}`, http.StatusCreated},
	{http.MethodPut, "/api/stocks/1", `{"comment":"hold"}`, http.StatusOK},
	{http.MethodPatch, "/api/stocks/1", `{"comment":"hold"}`, http.StatusOK},
	{http.MethodDelete, "/api/stocks/1", "", http.StatusOK},
	{http.MethodPost, "/api/stocks/1/refresh", "", http.StatusOK},
}

var readRoutes = []route{
	{http.MethodGet, "/api/stocks", "", http.StatusOK},
	{http.MethodGet, "/api/stocks/1", "", http.StatusOK},
	{http.MethodGet, "/api/stocks/symbol/aapl", "", http.StatusOK},
	{http.MethodGet, "/healthz", "", http.StatusOK},
}

func serve(r *gin.Engine, rt route, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
	if rt.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewRouter_OpenWhenSecretUnset(t *testing.T) {
	r := newTestRouter("")
	for _, rt := range append(readRoutes, writeRoutes...) {
		w := serve(r, rt, "")
		assert.Equal(t, rt.status, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestNewRouter_WriteRoutesRequireToken(t *testing.T) {
	const secret = "router-secret"
	r := newTestRouter(secret)

	token, err := jwtmw.NewGenerator(secret, time.Hour).GenerateToken("operator")
	require.NoError(t, err)

	for _, rt := range writeRoutes {
		w := serve(r, rt, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", rt.method, rt.path)

		w = serve(r, rt, token)
		assert.Equal(t, rt.status, w.Code, "%s %s with token", rt.method, rt.path)
	}

	for _, rt := range readRoutes {
		w := serve(r, rt, "")
		assert.Equal(t, rt.status, w.Code, "%s %s stays open", rt.method, rt.path)
	}
}

func TestNewRouter_RequestIDAndMetrics(t *testing.T) {
	r := newTestRouter("")

	w := serve(r, route{method: http.MethodGet, path: "/api/stocks"}, "")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = serve(r, route{method: http.MethodGet, path: "/metrics"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/api/stocks",status="200"} 1`)
}

func TestNewRouter_CORS(t *testing.T) {
	r := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
