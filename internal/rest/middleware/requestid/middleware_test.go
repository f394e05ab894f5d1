package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sociumlabs/socium/internal/rest/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	middleware := requestid.New()
	router := bunrouter.New()

	var gotID string

	router.GET("/ping", middleware.AsRESTMiddleware(func(_ http.ResponseWriter, req bunrouter.Request) error {
		gotID = requestid.FromContext(req.Context())
		return nil
	}))

	t.Run("generates an ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)

		require.NoError(t, router.ServeHTTPError(w, req))

		header := w.Header().Get("X-Request-ID")
		assert.Equal(t, header, gotID)

		_, err := uuid.Parse(header)
		assert.NoError(t, err)
	})

	t.Run("honors a caller-supplied ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "trace-123")

		require.NoError(t, router.ServeHTTPError(w, req))

		assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "trace-123", gotID)
	})
}
