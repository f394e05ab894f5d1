// Package rest exposes the feed and content services over HTTP.
package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/feed"
	"github.com/sociumlabs/socium/internal/rest/handler"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	"github.com/sociumlabs/socium/internal/rest/middleware/ratelimit"
	"github.com/sociumlabs/socium/internal/rest/middleware/requestid"
	"github.com/sociumlabs/socium/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	feedHandler    *handler.FeedHandler
	postHandler    *handler.PostHandler
	likeHandler    *handler.LikeHandler
	followHandler  *handler.FollowHandler
	commentHandler *handler.CommentHandler
}

// NewServer creates a new REST API server.
func NewServer(
	feedService *feed.Service, contentService *content.Service,
	logger *zap.Logger, config *config.Config,
) http.Handler {
	exposeErrors := config.Debug.ExposeErrors

	// Create server instance with handlers
	server := &Server{
		feedHandler:    handler.NewFeedHandler(feedService, logger, exposeErrors),
		postHandler:    handler.NewPostHandler(contentService.Post(), logger, exposeErrors),
		likeHandler:    handler.NewLikeHandler(contentService.Like(), logger, exposeErrors),
		followHandler:  handler.NewFollowHandler(contentService.Follow(), logger, exposeErrors),
		commentHandler: handler.NewCommentHandler(contentService.Comment(), logger, exposeErrors),
	}

	// Create middleware instances
	requestIDMiddleware := requestid.New()
	rateLimiter := ratelimit.New(&config.API, logger)
	authMiddleware := auth.New(logger)

	// Create base router
	router := bunrouter.New()

	router.Use(
		requestIDMiddleware.AsRESTMiddleware,
		rateLimiter.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		// Public surface: anonymous access allowed, like state added
		// when a user header is present
		g.Use(authMiddleware.Optional).WithGroup("", func(g *bunrouter.Group) {
			g.GET("/feed/public", server.feedHandler.GetPublicFeed)
			g.GET("/posts/:id", server.postHandler.GetPost)
			g.GET("/posts/:id/likes", server.likeHandler.ListLikes)
			g.GET("/posts/:id/comments", server.commentHandler.ListComments)
			g.GET("/users/:id/posts", server.postHandler.ListUserPosts)
			g.GET("/users/:id/following", server.followHandler.ListFollowing)
			g.GET("/users/:id/followers", server.followHandler.ListFollowers)
		})

		// Authenticated surface
		g.Use(authMiddleware.Required).WithGroup("", func(g *bunrouter.Group) {
			g.GET("/feed", server.feedHandler.GetFeed)
			g.GET("/feed/stats", server.feedHandler.GetStats)
			g.POST("/feed/refresh", server.feedHandler.RefreshFeed)

			g.POST("/posts", server.postHandler.CreatePost)
			g.PUT("/posts/:id", server.postHandler.UpdatePost)
			g.DELETE("/posts/:id", server.postHandler.DeletePost)

			g.POST("/posts/:id/like", server.likeHandler.LikePost)
			g.DELETE("/posts/:id/like", server.likeHandler.UnlikePost)

			g.POST("/users/:id/follow", server.followHandler.FollowUser)
			g.DELETE("/users/:id/follow", server.followHandler.UnfollowUser)

			g.POST("/posts/:id/comments", server.commentHandler.CreateComment)
			g.DELETE("/comments/:id", server.commentHandler.DeleteComment)
		})
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}
