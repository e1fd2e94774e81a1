package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	t.Run("success: generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("success: incoming id is propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("edge case: oversized id is replaced", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
		r.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
		assert.NoError(t, err)
	})
}

func TestAccessLog_PassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog())
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/stocks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	for _, path := range []string{"/api/stocks/1", "/api/stocks/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/stocks/:id",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
