//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"tablebook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Run("serialization failure is retryable", func(t *testing.T) {
		err := &pgconn.PgError{Code: pgErrCodeSerializationFailure}
		assert.True(t, isRetryableError(err))
	})

	t.Run("deadlock is retryable", func(t *testing.T) {
		err := errs.Wrap(&pgconn.PgError{Code: pgErrCodeDeadlockDetected}, "update failed")
		assert.True(t, isRetryableError(err))
	})

	t.Run("other pg errors are not", func(t *testing.T) {
		assert.False(t, isRetryableError(&pgconn.PgError{Code: "23505"}))
	})

	t.Run("plain errors are not", func(t *testing.T) {
		assert.False(t, isRetryableError(errors.New("capacity exhausted")))
	})
}

func TestResolveAttempt(t *testing.T) {
	const maxRetries = 3
	serialization := &pgconn.PgError{Code: pgErrCodeSerializationFailure}

	t.Run("retryable error before the budget retries", func(t *testing.T) {
		retry, finalErr := resolveAttempt(serialization, 0, maxRetries)

		assert.True(t, retry)
		assert.NoError(t, finalErr)
	})

	t.Run("retryable error on the last attempt is marked exhausted", func(t *testing.T) {
		retry, finalErr := resolveAttempt(serialization, maxRetries, maxRetries)

		assert.False(t, retry)
		require.Error(t, finalErr)
		assert.True(t, errors.Is(finalErr, ErrMaxRetriesExceeded))
		assert.True(t, errors.Is(finalErr, serialization))
	})

	t.Run("non-retryable error keeps its identity on the last attempt", func(t *testing.T) {
		domainErr := errors.New("party does not fit")

		retry, finalErr := resolveAttempt(domainErr, maxRetries, maxRetries)

		assert.False(t, retry)
		assert.False(t, errors.Is(finalErr, ErrMaxRetriesExceeded))
		assert.True(t, errors.Is(finalErr, domainErr))
	})

	t.Run("non-retryable error never retries", func(t *testing.T) {
		retry, finalErr := resolveAttempt(errors.New("boom"), 0, maxRetries)

		assert.False(t, retry)
		assert.EqualError(t, finalErr, "boom")
	})
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		wait := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base

		assert.GreaterOrEqual(t, wait, floor)
		assert.Less(t, wait, floor+floor/5)
	}
}
