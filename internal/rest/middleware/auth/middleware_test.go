package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*bunrouter.Router, *auth.Middleware) {
	t.Helper()

	middleware := auth.New(zap.NewNop())
	router := bunrouter.New()

	return router, middleware
}

func TestRequired(t *testing.T) {
	t.Parallel()

	router, middleware := newRouter(t)

	var gotUserID int64

	router.GET("/me", middleware.Required(func(_ http.ResponseWriter, req bunrouter.Request) error {
		gotUserID = auth.UserID(req.Context())
		return nil
	}))

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)

		require.NoError(t, router.ServeHTTPError(w, req))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-User-ID", "abc")

		require.NoError(t, router.ServeHTTPError(w, req))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid header resolves the user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-User-ID", "42")

		require.NoError(t, router.ServeHTTPError(w, req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(42), gotUserID)
	})
}

func TestOptional(t *testing.T) {
	t.Parallel()

	router, middleware := newRouter(t)

	var gotUserID int64

	router.GET("/feed", middleware.Optional(func(_ http.ResponseWriter, req bunrouter.Request) error {
		gotUserID = auth.UserID(req.Context())
		return nil
	}))

	t.Run("anonymous request passes with zero user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)

		require.NoError(t, router.ServeHTTPError(w, req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, gotUserID)
	})

	t.Run("authenticated request resolves the user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		req.Header.Set("X-User-ID", "7")

		require.NoError(t, router.ServeHTTPError(w, req))
		assert.Equal(t, int64(7), gotUserID)
	})
}
