// Package auth resolves the acting user from the X-User-ID header set by
// the upstream gateway after session validation.
package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const userHeader = "X-User-ID"

type contextKey struct{}

// Middleware extracts the acting user from trusted request headers.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new auth middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger}
}

// Optional stores the user ID in the request context when the header is
// present, and lets anonymous requests through.
func (m *Middleware) Optional(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		if userID, ok := m.parseHeader(req); ok {
			ctx := context.WithValue(req.Context(), contextKey{}, userID)
			req.Request = req.Request.WithContext(ctx)
		}

		return next(w, req)
	}
}

// Required rejects requests without a valid user header.
func (m *Middleware) Required(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		userID, ok := m.parseHeader(req)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return nil
		}

		ctx := context.WithValue(req.Context(), contextKey{}, userID)
		req.Request = req.Request.WithContext(ctx)

		return next(w, req)
	}
}

func (m *Middleware) parseHeader(req bunrouter.Request) (int64, bool) {
	raw := req.Header.Get(userHeader)
	if raw == "" {
		return 0, false
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		m.logger.Debug("Rejected malformed user header", zap.String("value", raw))
		return 0, false
	}

	return userID, true
}

// UserID returns the acting user's ID from the context, or 0 for
// anonymous requests.
func UserID(ctx context.Context) int64 {
	if userID, ok := ctx.Value(contextKey{}).(int64); ok {
		return userID
	}

	return 0
}
