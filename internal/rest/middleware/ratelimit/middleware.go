// Package ratelimit implements per-client rate limiting for API requests.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sociumlabs/socium/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	errRateLimit  = "rate limit exceeded"
	headerRetryAt = "Retry-After"
)

// Middleware implements rate limiting for API requests.
type Middleware struct {
	limiters *limiterCache
	config   *config.API
	logger   *zap.Logger
}

// New creates a new rate limiting middleware.
func New(config *config.API, logger *zap.Logger) *Middleware {
	// Keep idle limiters around long enough to refill their burst
	idleFor := time.Second * time.Duration(config.BurstSize*2)
	if idleFor < time.Minute {
		idleFor = time.Minute
	}

	return &Middleware{
		limiters: newLimiterCache(idleFor),
		config:   config,
		logger:   logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		clientIP := m.clientIP(req.Request)

		limiter := m.getLimiter(clientIP)

		reservation := limiter.Reserve()
		if !reservation.OK() {
			m.logger.Debug("Rate limit exceeded", zap.String("ip", clientIP))
			http.Error(w, errRateLimit, http.StatusTooManyRequests)

			return nil
		}

		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", delay.Seconds()))

			m.logger.Debug("Rate limit delay required",
				zap.String("ip", clientIP),
				zap.Duration("delay", delay))
			http.Error(w, errRateLimit, http.StatusTooManyRequests)

			return nil
		}

		return next(w, req)
	}
}

// getLimiter returns a rate limiter for the specified IP.
func (m *Middleware) getLimiter(clientIP string) *rate.Limiter {
	return m.limiters.get(clientIP, func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.BurstSize)
	})
}

// clientIP extracts the client address, preferring the first
// X-Forwarded-For entry set by the upstream proxy.
func (m *Middleware) clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}

		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
