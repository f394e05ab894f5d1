package handler

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/sociumlabs/socium/internal/database/types"
	restTypes "github.com/sociumlabs/socium/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// responder writes envelope responses, shared by all handlers.
type responder struct {
	logger       *zap.Logger
	exposeErrors bool
}

func (r *responder) writeData(w http.ResponseWriter, data any) error {
	return r.writeJSON(w, http.StatusOK, restTypes.Response{
		Success: true,
		Data:    data,
	})
}

func (r *responder) writeMessage(w http.ResponseWriter, message string) error {
	return r.writeJSON(w, http.StatusOK, restTypes.Response{
		Success: true,
		Message: message,
	})
}

func (r *responder) writeCreated(w http.ResponseWriter, data any) error {
	return r.writeJSON(w, http.StatusCreated, restTypes.Response{
		Success: true,
		Data:    data,
	})
}

func (r *responder) writeInvalid(w http.ResponseWriter, message string) error {
	return r.writeJSON(w, http.StatusUnprocessableEntity, restTypes.Response{
		Success: false,
		Message: message,
	})
}

// writeError maps domain errors to HTTP statuses. Unknown errors are
// logged and reported as a generic failure.
func (r *responder) writeError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, types.ErrPostNotFound):
		status, message = http.StatusNotFound, "post not found"
	case errors.Is(err, types.ErrUserNotFound):
		status, message = http.StatusNotFound, "user not found"
	case errors.Is(err, types.ErrCommentNotFound):
		status, message = http.StatusNotFound, "comment not found"
	case errors.Is(err, types.ErrNotPostOwner):
		status, message = http.StatusForbidden, "not the post owner"
	case errors.Is(err, types.ErrSelfFollow):
		status, message = http.StatusUnprocessableEntity, "cannot follow yourself"
	case errors.Is(err, types.ErrAlreadyFollowing):
		status, message = http.StatusConflict, "already following"
	case errors.Is(err, types.ErrNotFollowing):
		status, message = http.StatusConflict, "not following"
	default:
		r.logger.Error("Request failed", zap.Error(err))
	}

	response := restTypes.Response{
		Success: false,
		Message: message,
	}
	if r.exposeErrors {
		response.Error = err.Error()
	}

	return r.writeJSON(w, status, response)
}

func (r *responder) writeJSON(w http.ResponseWriter, status int, response restTypes.Response) error {
	body, err := sonic.Marshal(response)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)

	return err
}

// decodeBody reads a JSON request payload.
func decodeBody(req bunrouter.Request, v any) error {
	return sonic.ConfigDefault.NewDecoder(req.Body).Decode(v)
}
