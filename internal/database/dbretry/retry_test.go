package dbretry

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errConnReset = errors.New("read tcp: connection reset by peer")
	errBusiness  = errors.New("constraint violated")
)

// fastBackoff shrinks the retry windows so tests finish quickly.
func fastBackoff(t *testing.T) {
	t.Helper()

	oldElapsed, oldInitial, oldMax, oldRetries := maxElapsedTime, initialInterval, maxInterval, maxRetries
	maxElapsedTime = 200 * time.Millisecond
	initialInterval = time.Millisecond
	maxInterval = 5 * time.Millisecond
	maxRetries = 3

	t.Cleanup(func() {
		maxElapsedTime, initialInterval, maxInterval, maxRetries = oldElapsed, oldInitial, oldMax, oldRetries
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(sql.ErrNoRows))
	assert.False(t, IsRetryableError(errBusiness))

	assert.True(t, IsRetryableError(errConnReset))
	assert.True(t, IsRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryableError(errors.New("unexpected EOF")))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
}

func TestOperationSucceedsFirstTry(t *testing.T) {
	fastBackoff(t)

	calls := 0
	result, err := Operation(t.Context(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestOperationRetriesTransientErrors(t *testing.T) {
	fastBackoff(t)

	calls := 0
	result, err := Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errConnReset
		}

		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestOperationStopsOnPermanentError(t *testing.T) {
	fastBackoff(t)

	calls := 0
	_, err := Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 0, sql.ErrNoRows
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-retryable errors must not be retried")

	// The original error stays reachable through the wrapping
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestOperationExhaustsRetries(t *testing.T) {
	fastBackoff(t)

	calls := 0
	_, err := Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 0, errConnReset
	})

	require.ErrorIs(t, err, errConnReset)
	assert.Equal(t, 4, calls) // initial attempt + 3 retries
}

func TestNoResult(t *testing.T) {
	fastBackoff(t)

	require.NoError(t, NoResult(t.Context(), func(context.Context) error {
		return nil
	}))

	err := NoResult(t.Context(), func(context.Context) error {
		return errBusiness
	})
	require.ErrorIs(t, err, errBusiness)
}
