package feed

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// maxEvictionWorkers bounds the concurrent per-follower tag flushes when a
// post fan-out invalidates many feeds at once.
const maxEvictionWorkers = 8

// Invalidator evicts cached feed pages in response to write-path mutations.
// Every method swallows failures after logging them: invalidation runs on
// behalf of a write that must not fail because the cache is unhealthy. The
// worst case is staleness bounded by the cache TTL.
type Invalidator struct {
	cache  Cache
	graph  FollowGraph
	logger *zap.Logger
}

// NewInvalidator creates an invalidator over the given cache and follow graph.
func NewInvalidator(cache Cache, graph FollowGraph, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		graph:  graph,
		logger: logger.Named("feed_invalidator"),
	}
}

// InvalidateUserFeed evicts every cached page tagged with the user: all
// cursor and limit variants of their personalized feed, plus any public
// pages annotated for them.
func (i *Invalidator) InvalidateUserFeed(ctx context.Context, userID int64) {
	if err := i.cache.FlushTag(ctx, UserTag(userID)); err != nil {
		i.logger.Warn("Failed to invalidate user feed cache",
			zap.Int64("userID", userID),
			zap.Error(err))

		return
	}

	i.logger.Info("Feed cache invalidated", zap.Int64("userID", userID))
}

// InvalidateFollowerFeeds reacts to authorID publishing or removing a post:
// every follower's personalized cache is evicted, and the public feed cache
// is dropped wholesale because the trending order changed for everyone.
// An author with zero followers still triggers the public eviction.
func (i *Invalidator) InvalidateFollowerFeeds(ctx context.Context, authorID int64) {
	followerIDs, err := i.graph.FollowerIDs(ctx, authorID)
	if err != nil {
		i.logger.Error("Failed to resolve followers for feed invalidation",
			zap.Int64("authorID", authorID),
			zap.Error(err))
	} else {
		p := pool.New().WithContext(ctx).WithMaxGoroutines(maxEvictionWorkers)

		for _, followerID := range followerIDs {
			p.Go(func(ctx context.Context) error {
				i.InvalidateUserFeed(ctx, followerID)
				return nil
			})
		}

		_ = p.Wait()

		i.logger.Info("Follower feeds invalidated",
			zap.Int64("authorID", authorID),
			zap.Int("followersCount", len(followerIDs)))
	}

	i.InvalidatePublicFeed(ctx)
}

// InvalidatePublicFeed evicts every cached public-feed page. Used whenever
// engagement counts shift the trending order.
func (i *Invalidator) InvalidatePublicFeed(ctx context.Context) {
	if err := i.cache.FlushTag(ctx, PublicTag); err != nil {
		i.logger.Warn("Failed to invalidate public feed cache", zap.Error(err))
	}
}
