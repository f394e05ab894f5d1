package handler

import (
	"net/http"

	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	restTypes "github.com/sociumlabs/socium/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// PostHandler handles post CRUD endpoints.
type PostHandler struct {
	responder
	posts *content.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts *content.PostService, logger *zap.Logger, exposeErrors bool) *PostHandler {
	return &PostHandler{
		responder: responder{logger: logger.Named("post_handler"), exposeErrors: exposeErrors},
		posts:     posts,
	}
}

// CreatePost creates a post for the authenticated user.
func (h *PostHandler) CreatePost(w http.ResponseWriter, req bunrouter.Request) error {
	var payload restTypes.CreatePostRequest
	if err := decodeBody(req, &payload); err != nil {
		return h.writeInvalid(w, "malformed request body")
	}

	if msg := payload.Validate(); msg != "" {
		return h.writeInvalid(w, msg)
	}

	userID := auth.UserID(req.Context())

	post, err := h.posts.CreatePost(req.Context(), userID, payload.Title, payload.Content, payload.ImageURL)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeCreated(w, post)
}

// GetPost returns a post with its engagement counts.
func (h *PostHandler) GetPost(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	post, err := h.posts.GetPost(req.Context(), postID)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, post)
}

// ListUserPosts returns a user's posts, newest first.
func (h *PostHandler) ListUserPosts(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	limit, offset, err := listParams(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	posts, err := h.posts.ListByAuthor(req.Context(), userID, limit, offset)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, posts)
}

// UpdatePost edits a post owned by the authenticated user.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	var payload restTypes.UpdatePostRequest
	if err := decodeBody(req, &payload); err != nil {
		return h.writeInvalid(w, "malformed request body")
	}

	if msg := payload.Validate(); msg != "" {
		return h.writeInvalid(w, msg)
	}

	userID := auth.UserID(req.Context())

	post, err := h.posts.UpdatePost(req.Context(), postID, userID, payload.Title, payload.Content, payload.ImageURL)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, post)
}

// DeletePost removes a post owned by the authenticated user.
func (h *PostHandler) DeletePost(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	userID := auth.UserID(req.Context())

	if err := h.posts.DeletePost(req.Context(), postID, userID); err != nil {
		return h.writeError(w, err)
	}

	return h.writeMessage(w, "post deleted")
}
