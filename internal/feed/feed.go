package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Config carries the feed assembly settings.
type Config struct {
	// CacheTTL bounds how long a cached page may be served.
	CacheTTL time.Duration
	// MaxPosts caps the page size a request can ask for.
	MaxPosts int
	// DefaultLimit is the page size used when the request does not set one.
	DefaultLimit int
}

// Service assembles feed pages with fan-out-on-read: the follow graph and
// post store are queried live per request, with results memoized in the
// cache under cursor-specific keys.
type Service struct {
	posts   PostStore
	users   UserStore
	follows FollowGraph
	likes   LikeStore
	cache   Cache
	codec   *Codec
	ranker  Ranker
	inv     *Invalidator
	group   singleflight.Group
	config  Config
	logger  *zap.Logger
}

// NewService creates the feed service. The invalidator must share the same
// cache instance so refresh and write-path evictions hit the entries this
// service writes.
func NewService(
	posts PostStore, users UserStore, follows FollowGraph, likes LikeStore,
	cache Cache, inv *Invalidator, ranker Ranker, config Config, logger *zap.Logger,
) *Service {
	return &Service{
		posts:   posts,
		users:   users,
		follows: follows,
		likes:   likes,
		cache:   cache,
		codec:   NewCodec(posts, ranker),
		ranker:  ranker,
		inv:     inv,
		config:  config,
		logger:  logger.Named("feed"),
	}
}

// Invalidator returns the invalidator wired to this service's cache.
func (s *Service) Invalidator() *Invalidator {
	return s.inv
}

// GetPersonalizedFeed returns posts from authors the user follows, newest
// first. A zero cursor means the first page.
func (s *Service) GetPersonalizedFeed(ctx context.Context, userID int64, limit int, cursor int64) (*Page, error) {
	limit = s.clampLimit(limit)

	key := personalizedKey(userID, limit, cursor)
	if page, ok := s.cachedPage(ctx, key); ok {
		return page, nil
	}

	return s.buildAndStore(ctx, key, []string{UserTag(userID)}, func(ctx context.Context) (*Page, error) {
		return s.buildPersonalizedFeed(ctx, userID, limit, cursor)
	})
}

// GetPublicFeed returns all posts ordered by engagement score. viewerID is
// zero for unauthenticated requests, which omits the is_liked annotation.
func (s *Service) GetPublicFeed(ctx context.Context, limit int, cursor, viewerID int64) (*Page, error) {
	limit = s.clampLimit(limit)

	key := publicKey(limit, cursor, viewerID)
	if page, ok := s.cachedPage(ctx, key); ok {
		return page, nil
	}

	tags := []string{PublicTag}
	if viewerID != 0 {
		tags = append(tags, UserTag(viewerID))
	}

	return s.buildAndStore(ctx, key, tags, func(ctx context.Context) (*Page, error) {
		return s.buildPublicFeed(ctx, limit, cursor, viewerID)
	})
}

// GetFeedStats reports follow counts and how many posts the user's
// personalized feed would draw from, without fetching a page.
func (s *Service) GetFeedStats(ctx context.Context, userID int64) (*Stats, error) {
	followingIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following set: %w", err)
	}

	followersCount, err := s.follows.FollowersCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers count: %w", err)
	}

	var available int
	if len(followingIDs) > 0 {
		available, err = s.posts.CountByAuthors(ctx, followingIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count feed posts: %w", err)
		}
	}

	return &Stats{
		FollowingCount:     len(followingIDs),
		FollowersCount:     followersCount,
		FeedPostsAvailable: available,
	}, nil
}

// RefreshFeed drops the user's cached pages and rebuilds the first page from
// a live query. The eviction runs before the fetch, so the caller always
// observes a cache miss.
func (s *Service) RefreshFeed(ctx context.Context, userID int64) (*Page, error) {
	s.inv.InvalidateUserFeed(ctx, userID)
	return s.GetPersonalizedFeed(ctx, userID, s.config.DefaultLimit, 0)
}

// buildPersonalizedFeed executes the live query path for the following feed.
func (s *Service) buildPersonalizedFeed(ctx context.Context, userID int64, limit int, cursor int64) (*Page, error) {
	start := time.Now()

	followingIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following set: %w", err)
	}

	// Following nobody means an empty feed; skip the store entirely rather
	// than issuing an always-false IN () query.
	if len(followingIDs) == 0 {
		s.logger.Info("User follows nobody, returning empty feed",
			zap.Int64("userID", userID))

		return EmptyPage(), nil
	}

	boundary, err := s.resolveBoundary(ctx, TypePersonalized, cursor)
	if err != nil {
		if errors.Is(err, ErrCursorNotFound) {
			// The anchor post is gone; treat the feed as exhausted.
			return EmptyPage(), nil
		}

		return nil, err
	}

	posts, err := s.posts.FeedPage(ctx, Query{
		Type:      TypePersonalized,
		AuthorIDs: followingIDs,
		Boundary:  boundary,
		Limit:     limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query personalized feed: %w", err)
	}

	page, err := s.assemblePage(ctx, posts, limit, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Personalized feed built",
		zap.Int64("userID", userID),
		zap.Int("followingCount", len(followingIDs)),
		zap.Int("postsFetched", len(page.Posts)),
		zap.Bool("hasMore", page.HasMore),
		zap.Duration("duration", time.Since(start)))

	return page, nil
}

// buildPublicFeed executes the live query path for the trending feed.
func (s *Service) buildPublicFeed(ctx context.Context, limit int, cursor, viewerID int64) (*Page, error) {
	start := time.Now()

	boundary, err := s.resolveBoundary(ctx, TypePublic, cursor)
	if err != nil {
		if errors.Is(err, ErrCursorNotFound) {
			return EmptyPage(), nil
		}

		return nil, err
	}

	posts, err := s.posts.FeedPage(ctx, Query{
		Type:     TypePublic,
		Boundary: boundary,
		Limit:    limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query public feed: %w", err)
	}

	page, err := s.assemblePage(ctx, posts, limit, viewerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Public feed built",
		zap.Int("postsFetched", len(page.Posts)),
		zap.Bool("hasMore", page.HasMore),
		zap.Duration("duration", time.Since(start)))

	return page, nil
}

// resolveBoundary decodes a non-zero cursor into a boundary tuple.
func (s *Service) resolveBoundary(ctx context.Context, feedType Type, cursor int64) (*Boundary, error) {
	if cursor == 0 {
		return nil, nil
	}

	return s.codec.Resolve(ctx, feedType, cursor)
}

// assemblePage truncates the limit+1 fetch to the page size, annotates each
// post with its author, score and (for authenticated viewers) liked state,
// and derives the continuation cursor.
func (s *Service) assemblePage(ctx context.Context, posts []*types.Post, limit int, viewerID int64) (*Page, error) {
	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	if len(posts) == 0 {
		return EmptyPage(), nil
	}

	postIDs := make([]int64, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	seenAuthors := make(map[int64]struct{}, len(posts))

	for i, post := range posts {
		postIDs[i] = post.ID

		if _, ok := seenAuthors[post.UserID]; !ok {
			seenAuthors[post.UserID] = struct{}{}
			authorIDs = append(authorIDs, post.UserID)
		}
	}

	authors, err := s.users.UsersByID(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed authors: %w", err)
	}

	var liked map[int64]struct{}
	if viewerID != 0 {
		liked, err = s.likes.FilterLiked(ctx, viewerID, postIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to annotate liked posts: %w", err)
		}
	}

	items := make([]*Item, len(posts))
	for i, post := range posts {
		item := &Item{
			Post:            *post,
			EngagementScore: s.ranker.Score(post.LikesCount, post.CommentsCount),
		}

		if author, ok := authors[post.UserID]; ok {
			item.Author = author
		}

		if viewerID != 0 {
			_, isLiked := liked[post.ID]
			item.IsLiked = &isLiked
		}

		items[i] = item
	}

	page := &Page{Posts: items, HasMore: hasMore}

	// A trailing cursor is only offered when more rows exist; the end of the
	// feed never dangles one.
	if hasMore {
		last := posts[len(posts)-1].ID
		page.NextCursor = &last
	}

	return page, nil
}

// clampLimit constrains a requested page size to [1, MaxPosts], substituting
// the default for unset values.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultLimit
	}

	if limit > s.config.MaxPosts {
		return s.config.MaxPosts
	}

	return limit
}

// cachedPage attempts a cache read. Cache failures degrade to a miss so the
// request is served from a live query instead of failing.
func (s *Service) cachedPage(ctx context.Context, key string) (*Page, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Feed cache unavailable, serving live query",
			zap.String("key", key),
			zap.Error(err))

		return nil, false
	}

	if !ok {
		return nil, false
	}

	var page Page
	if err := sonic.Unmarshal(data, &page); err != nil {
		s.logger.Warn("Failed to decode cached feed page",
			zap.String("key", key),
			zap.Error(err))

		return nil, false
	}

	s.logger.Debug("Feed cache hit", zap.String("key", key))

	return &page, true
}

// buildAndStore runs the live build under singleflight so concurrent misses
// for the same key share one query, then stores the page before returning.
func (s *Service) buildAndStore(
	ctx context.Context, key string, tags []string, build func(ctx context.Context) (*Page, error),
) (*Page, error) {
	result, err, _ := s.group.Do(key, func() (any, error) {
		page, err := build(ctx)
		if err != nil {
			return nil, err
		}

		s.storePage(ctx, key, tags, page)

		return page, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Page), nil //nolint:forcetypeassert // singleflight only stores *Page
}

// storePage writes a built page to the cache. Write failures are logged and
// swallowed; caching is an optimization, never a correctness dependency.
func (s *Service) storePage(ctx context.Context, key string, tags []string, page *Page) {
	data, err := sonic.Marshal(page)
	if err != nil {
		s.logger.Warn("Failed to encode feed page for cache",
			zap.String("key", key),
			zap.Error(err))

		return
	}

	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL, tags); err != nil {
		s.logger.Warn("Failed to store feed page in cache",
			zap.String("key", key),
			zap.Error(err))
	}
}
