// Package requestid tags every request with an ID for log correlation.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
)

const requestIDHeader = "X-Request-ID"

type contextKey struct{}

// Middleware assigns request IDs, honoring one supplied by the caller.
type Middleware struct{}

// New creates a new request ID middleware.
func New() *Middleware {
	return &Middleware{}
}

// AsRESTMiddleware returns a bunrouter middleware handler.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		requestID := req.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(req.Context(), contextKey{}, requestID)
		req.Request = req.Request.WithContext(ctx)

		return next(w, req)
	}
}

// FromContext returns the request ID stored in the context, if any.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKey{}).(string); ok {
		return requestID
	}

	return ""
}
