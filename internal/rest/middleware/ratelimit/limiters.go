package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter pairs a token bucket with the last time its client was seen.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache holds one token bucket per client address. Buckets idle for
// longer than idleFor are swept out; idleFor must cover the full refill
// window so a swept bucket never forgets outstanding debt.
type limiterCache struct {
	mu      sync.Mutex
	idleFor time.Duration
	clients map[string]*clientLimiter
}

func newLimiterCache(idleFor time.Duration) *limiterCache {
	c := &limiterCache{
		idleFor: idleFor,
		clients: make(map[string]*clientLimiter),
	}

	go c.sweep()

	return c
}

// get returns the client's limiter, creating one on first sight. Every call
// counts as activity and pushes the idle deadline out.
func (c *limiterCache) get(clientIP string, newLimiter func() *rate.Limiter) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.clients[clientIP]
	if !ok {
		entry = &clientLimiter{limiter: newLimiter()}
		c.clients[clientIP] = entry
	}

	entry.lastSeen = time.Now()

	return entry.limiter
}

func (c *limiterCache) sweep() {
	ticker := time.NewTicker(c.idleFor)
	defer ticker.Stop()

	for range ticker.C {
		c.sweepIdle(time.Now())
	}
}

// sweepIdle drops every client not seen since now minus idleFor.
func (c *limiterCache) sweepIdle(now time.Time) {
	cutoff := now.Add(-c.idleFor)

	c.mu.Lock()
	defer c.mu.Unlock()

	for ip, entry := range c.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(c.clients, ip)
		}
	}
}

// size reports how many clients currently hold a bucket.
func (c *limiterCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.clients)
}
