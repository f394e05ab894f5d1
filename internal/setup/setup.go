// Package setup wires configuration, logging, storage and services into a
// running application.
package setup

import (
	"context"
	"log"
	"time"

	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/database"
	"github.com/sociumlabs/socium/internal/feed"
	"github.com/sociumlabs/socium/internal/redis"
	"github.com/sociumlabs/socium/internal/setup/config"
	"go.uber.org/zap"
)

// App contains all the common application components.
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             database.Client
	RedisManager   *redis.Manager
	FeedService    *feed.Service
	ContentService *content.Service
}

// InitializeApp performs common setup tasks and returns an App. When
// autoMigrate is set, pending schema migrations run during connection.
func InitializeApp(ctx context.Context, autoMigrate bool) (*App, error) {
	// Load configuration
	cfg, configPath, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Initialize logging
	logger, err := NewLogger(cfg.Debug.LogLevel)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded configuration", zap.String("path", configPath))

	// The ranker is shared between the post model's SQL rendering and the
	// feed service's in-memory scoring so both use the same weights
	ranker := feed.NewRanker(cfg.Feed.LikeWeight, cfg.Feed.CommentWeight)

	// Initialize database connection
	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, ranker, logger, autoMigrate)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	// Initialize Redis manager
	redisManager := redis.NewManager(&cfg.Redis, logger)

	cacheTTL := time.Duration(cfg.Feed.CacheTTL) * time.Second

	// Pick the cache backend
	var cache feed.Cache

	if cfg.Feed.CacheEnabled {
		cacheClient, err := redisManager.GetClient(redis.FeedCacheDBIndex)
		if err != nil {
			logger.Error("Failed to create feed cache client", zap.Error(err))
			return nil, err
		}

		cache = feed.NewRedisCache(cacheClient, cacheTTL, logger)
	} else {
		logger.Warn("Feed caching is disabled, every request hits the database")

		cache = feed.NewDisabledCache()
	}

	repo := db.Model()
	invalidator := feed.NewInvalidator(cache, repo.Follow(), logger)

	feedService := feed.NewService(
		repo.Post(), repo.User(), repo.Follow(), repo.Like(),
		cache, invalidator, ranker,
		feed.Config{
			CacheTTL:     cacheTTL,
			MaxPosts:     cfg.Feed.MaxPosts,
			DefaultLimit: cfg.Feed.DefaultLimit,
		},
		logger,
	)

	contentService := content.NewService(db, invalidator, logger)

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		RedisManager:   redisManager,
		FeedService:    feedService,
		ContentService: contentService,
	}, nil
}

// Cleanup performs cleanup tasks.
func (app *App) Cleanup() {
	if err := app.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := app.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	app.RedisManager.Close()
}
