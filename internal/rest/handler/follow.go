package handler

import (
	"net/http"

	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// FollowHandler handles follow graph endpoints.
type FollowHandler struct {
	responder
	follows *content.FollowService
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(follows *content.FollowService, logger *zap.Logger, exposeErrors bool) *FollowHandler {
	return &FollowHandler{
		responder: responder{logger: logger.Named("follow_handler"), exposeErrors: exposeErrors},
		follows:   follows,
	}
}

// FollowUser makes the authenticated user follow the target user.
func (h *FollowHandler) FollowUser(w http.ResponseWriter, req bunrouter.Request) error {
	followingID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	followerID := auth.UserID(req.Context())

	if err := h.follows.Follow(req.Context(), followerID, followingID); err != nil {
		return h.writeError(w, err)
	}

	return h.writeMessage(w, "user followed")
}

// UnfollowUser removes the authenticated user's follow of the target user.
func (h *FollowHandler) UnfollowUser(w http.ResponseWriter, req bunrouter.Request) error {
	followingID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	followerID := auth.UserID(req.Context())

	if err := h.follows.Unfollow(req.Context(), followerID, followingID); err != nil {
		return h.writeError(w, err)
	}

	return h.writeMessage(w, "user unfollowed")
}

// ListFollowing returns the users a user follows.
func (h *FollowHandler) ListFollowing(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	limit, offset, err := listParams(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	users, err := h.follows.Following(req.Context(), userID, limit, offset)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, users)
}

// ListFollowers returns a user's followers.
func (h *FollowHandler) ListFollowers(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	limit, offset, err := listParams(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	users, err := h.follows.Followers(req.Context(), userID, limit, offset)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, users)
}
