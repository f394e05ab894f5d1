package handler

import (
	"net/http"

	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// LikeHandler handles like endpoints.
type LikeHandler struct {
	responder
	likes *content.LikeService
}

// NewLikeHandler creates a new like handler.
func NewLikeHandler(likes *content.LikeService, logger *zap.Logger, exposeErrors bool) *LikeHandler {
	return &LikeHandler{
		responder: responder{logger: logger.Named("like_handler"), exposeErrors: exposeErrors},
		likes:     likes,
	}
}

// LikePost records a like for the authenticated user. Liking a post
// twice succeeds without effect.
func (h *LikeHandler) LikePost(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	userID := auth.UserID(req.Context())

	created, err := h.likes.Like(req.Context(), userID, postID)
	if err != nil {
		return h.writeError(w, err)
	}

	if !created {
		return h.writeMessage(w, "already liked")
	}

	return h.writeMessage(w, "post liked")
}

// UnlikePost removes the authenticated user's like. Unliking a post that
// was never liked succeeds without effect.
func (h *LikeHandler) UnlikePost(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	userID := auth.UserID(req.Context())

	deleted, err := h.likes.Unlike(req.Context(), userID, postID)
	if err != nil {
		return h.writeError(w, err)
	}

	if !deleted {
		return h.writeMessage(w, "not liked")
	}

	return h.writeMessage(w, "post unliked")
}

// ListLikes returns the users who liked a post.
func (h *LikeHandler) ListLikes(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	limit, offset, err := listParams(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	users, err := h.likes.LikedBy(req.Context(), postID, limit, offset)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, users)
}
