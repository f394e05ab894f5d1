package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sociumlabs/socium/internal/rest/middleware/ratelimit"
	"github.com/sociumlabs/socium/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, cfg *config.API) *bunrouter.Router {
	t.Helper()

	middleware := ratelimit.New(cfg, zap.NewNop())
	router := bunrouter.New()
	router.GET("/ping", middleware.AsRESTMiddleware(func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusOK)
		return nil
	}))

	return router
}

func get(t *testing.T, router *bunrouter.Router, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	require.NoError(t, router.ServeHTTPError(w, req))

	return w
}

func TestRateLimitExceeded(t *testing.T) {
	t.Parallel()

	router := newRouter(t, &config.API{RequestsPerSecond: 1, BurstSize: 2})

	assert.Equal(t, http.StatusOK, get(t, router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "10.0.0.1:1234").Code)

	// Burst exhausted, the third immediate request is throttled
	w := get(t, router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitPerClient(t *testing.T) {
	t.Parallel()

	router := newRouter(t, &config.API{RequestsPerSecond: 1, BurstSize: 1})

	assert.Equal(t, http.StatusOK, get(t, router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, router, "10.0.0.1:1234").Code)

	// A different client has its own bucket
	assert.Equal(t, http.StatusOK, get(t, router, "10.0.0.2:1234").Code)
}

func TestRateLimitForwardedFor(t *testing.T) {
	t.Parallel()

	router := newRouter(t, &config.API{RequestsPerSecond: 1, BurstSize: 1})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.9")
	require.NoError(t, router.ServeHTTPError(w, req))
	assert.Equal(t, http.StatusOK, w.Code)

	// Same forwarded client through a different proxy hits the same bucket
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.8:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.8")
	require.NoError(t, router.ServeHTTPError(w, req))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
