package handler

import (
	"net/http"

	"github.com/sociumlabs/socium/internal/content"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	restTypes "github.com/sociumlabs/socium/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	responder
	comments *content.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments *content.CommentService, logger *zap.Logger, exposeErrors bool) *CommentHandler {
	return &CommentHandler{
		responder: responder{logger: logger.Named("comment_handler"), exposeErrors: exposeErrors},
		comments:  comments,
	}
}

// CreateComment attaches a comment to a post.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	var payload restTypes.CreateCommentRequest
	if err := decodeBody(req, &payload); err != nil {
		return h.writeInvalid(w, "malformed request body")
	}

	if msg := payload.Validate(); msg != "" {
		return h.writeInvalid(w, msg)
	}

	userID := auth.UserID(req.Context())

	comment, err := h.comments.AddComment(req.Context(), userID, postID, payload.Body)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeCreated(w, comment)
}

// ListComments returns a post's comments, newest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, req bunrouter.Request) error {
	postID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	limit, offset, err := listParams(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	comments, err := h.comments.ListComments(req.Context(), postID, limit, offset)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, comments)
}

// DeleteComment removes a comment owned by the authenticated user.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, req bunrouter.Request) error {
	commentID, err := pathID(req, "id")
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	userID := auth.UserID(req.Context())

	if err := h.comments.DeleteComment(req.Context(), commentID, userID); err != nil {
		return h.writeError(w, err)
	}

	return h.writeMessage(w, "comment deleted")
}
