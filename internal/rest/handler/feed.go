package handler

import (
	"net/http"

	"github.com/sociumlabs/socium/internal/feed"
	"github.com/sociumlabs/socium/internal/rest/middleware/auth"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// FeedHandler handles feed read endpoints.
type FeedHandler struct {
	responder
	feed *feed.Service
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feedService *feed.Service, logger *zap.Logger, exposeErrors bool) *FeedHandler {
	return &FeedHandler{
		responder: responder{logger: logger.Named("feed_handler"), exposeErrors: exposeErrors},
		feed:      feedService,
	}
}

// GetFeed returns the authenticated user's personalized feed page.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, req bunrouter.Request) error {
	userID := auth.UserID(req.Context())

	limit, err := queryInt(req, "limit", 0)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	cursor, err := queryCursor(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	page, err := h.feed.GetPersonalizedFeed(req.Context(), userID, limit, cursor)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, page)
}

// GetPublicFeed returns the engagement-ranked public feed page. Works for
// anonymous callers; authenticated callers get per-post like state.
func (h *FeedHandler) GetPublicFeed(w http.ResponseWriter, req bunrouter.Request) error {
	viewerID := auth.UserID(req.Context())

	limit, err := queryInt(req, "limit", 0)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	cursor, err := queryCursor(req)
	if err != nil {
		return h.writeInvalid(w, err.Error())
	}

	page, err := h.feed.GetPublicFeed(req.Context(), limit, cursor, viewerID)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, page)
}

// GetStats returns follow graph and feed availability counters for the
// authenticated user.
func (h *FeedHandler) GetStats(w http.ResponseWriter, req bunrouter.Request) error {
	userID := auth.UserID(req.Context())

	stats, err := h.feed.GetFeedStats(req.Context(), userID)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, stats)
}

// RefreshFeed drops the user's cached feed pages and rebuilds the first one.
func (h *FeedHandler) RefreshFeed(w http.ResponseWriter, req bunrouter.Request) error {
	userID := auth.UserID(req.Context())

	page, err := h.feed.RefreshFeed(req.Context(), userID)
	if err != nil {
		return h.writeError(w, err)
	}

	return h.writeData(w, page)
}
