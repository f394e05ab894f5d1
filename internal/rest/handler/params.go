package handler

import (
	"fmt"
	"strconv"

	"github.com/uptrace/bunrouter"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// pathID parses a numeric path parameter.
func pathID(req bunrouter.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(req.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return id, nil
}

// queryInt parses an optional non-negative integer query parameter.
// Malformed or negative values are rejected, not coerced.
func queryInt(req bunrouter.Request, name string, fallback int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}

	return value, nil
}

// queryCursor parses the optional cursor parameter. A cursor references a
// post ID, so it must be positive when present.
func queryCursor(req bunrouter.Request) (int64, error) {
	raw := req.URL.Query().Get("cursor")
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid cursor: %q", raw)
	}

	return value, nil
}

// listParams returns clamped limit/offset pagination for list endpoints.
func listParams(req bunrouter.Request) (int, int, error) {
	limit, err := queryInt(req, "limit", defaultListLimit)
	if err != nil {
		return 0, 0, err
	}

	if limit == 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	offset, err := queryInt(req, "offset", 0)
	if err != nil {
		return 0, 0, err
	}

	return limit, offset, nil
}
