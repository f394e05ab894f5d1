package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// tagKeyPrefix namespaces the Redis sets that group cache keys under a tag.
const tagKeyPrefix = "feed:tag:"

// Cache is the key-value store the feed subsystem memoizes pages in. Entries
// are immutable once written; tags allow bulk eviction of related keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the given TTL and registers the key in
	// each tag's set.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error
	// FlushTag evicts every key registered under the tag.
	FlushTag(ctx context.Context, tag string) error
}

// RedisCache implements Cache on Redis. Tag sets are plain Redis sets expiring
// at twice the entry TTL; a tag set may reference already-expired keys, which
// makes flushing them a harmless no-op.
type RedisCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed feed cache. The ttl parameter bounds
// tag set lifetime; individual entries carry their own TTL on Set.
func NewRedisCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("feed_cache"),
	}
}

// Get returns the cached value for key, or a miss when absent or expired.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores the value with its TTL and adds the key to each tag set. Tag
// sets expire at twice the entry TTL so stale members age out on their own.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	cmds := make(rueidis.Commands, 0, 1+2*len(tags))
	cmds = append(cmds, c.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build())

	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag
		cmds = append(cmds,
			c.client.B().Sadd().Key(tagKey).Member(key).Build(),
			c.client.B().Expire().Key(tagKey).Seconds(int64((2*ttl).Seconds())).Build(),
		)
	}

	for _, resp := range c.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("failed to set cache entry %s: %w", key, err)
		}
	}

	return nil
}

// FlushTag deletes every key in the tag set, then the set itself.
func (c *RedisCache) FlushTag(ctx context.Context, tag string) error {
	tagKey := tagKeyPrefix + tag

	members, err := c.client.Do(ctx, c.client.B().Smembers().Key(tagKey).Build()).AsStrSlice()
	if err != nil {
		return fmt.Errorf("failed to read tag set %s: %w", tag, err)
	}

	keys := append(members, tagKey)
	if err := c.client.Do(ctx, c.client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("failed to flush tag %s: %w", tag, err)
	}

	c.logger.Debug("Flushed cache tag",
		zap.String("tag", tag),
		zap.Int("evictedKeys", len(members)))

	return nil
}

// disabledCache satisfies Cache when caching is turned off: every read is a
// miss, every write a no-op.
type disabledCache struct{}

// NewDisabledCache returns a Cache for deployments with caching disabled.
func NewDisabledCache() Cache {
	return disabledCache{}
}

func (disabledCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (disabledCache) Set(context.Context, string, []byte, time.Duration, []string) error {
	return nil
}

func (disabledCache) FlushTag(context.Context, string) error {
	return nil
}
