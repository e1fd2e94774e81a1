package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		timeout       time.Duration
		headerTimeout time.Duration
	}{
		{"default finnhub timeout", 10 * time.Second, 5 * time.Second},
		{"short timeout caps header wait", 2 * time.Second, 2 * time.Second},
		{"no timeout", 0, 5 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewHTTPClient(tt.timeout)
			assert.Equal(t, tt.timeout, c.Timeout)

			tr, ok := c.Transport.(*http.Transport)
			require.True(t, ok)
			assert.Equal(t, tt.headerTimeout, tr.ResponseHeaderTimeout)
			assert.Equal(t, maxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
			assert.Equal(t, maxIdleConns, tr.MaxIdleConns)
			assert.True(t, tr.ForceAttemptHTTP2)
		})
	}
}

// TestNewHTTPClient_Timeout は応答しないサーバーに対してタイムアウトすることを検証します。
func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	_, err := NewHTTPClient(50 * time.Millisecond).Get(srv.URL)
	assert.Error(t, err)
}
