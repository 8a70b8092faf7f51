package db

import (
	"context"
	"errors"
	"math"
	prand "math/rand"
	"time"
)

const (
	// DefaultNumRetries is how many times a write is attempted when
	// another hook process holds the database lock past the busy timeout.
	DefaultNumRetries = 5

	// DefaultInitialRetryDelay is the base delay before the first retry.
	// The actual delay is randomized between 50% and 150% of it, then
	// doubled for each further attempt.
	DefaultInitialRetryDelay = 40 * time.Millisecond

	// DefaultMaxRetryDelay caps a single wait between retries. Hooks run
	// on the host's critical path, so this stays short.
	DefaultMaxRetryDelay = 500 * time.Millisecond
)

// ErrRetriesExceeded is returned when a write kept failing with a busy or
// locked database after every retry.
var ErrRetriesExceeded = errors.New("journal write retries exceeded")

// retryOptions controls how busy writes are retried.
type retryOptions struct {
	numRetries        int
	initialRetryDelay time.Duration
	maxRetryDelay     time.Duration
}

func defaultRetryOptions() retryOptions {
	return retryOptions{
		numRetries:        DefaultNumRetries,
		initialRetryDelay: DefaultInitialRetryDelay,
		maxRetryDelay:     DefaultMaxRetryDelay,
	}
}

// randRetryDelay returns the jittered delay for the given attempt, doubled
// per attempt and capped at maxRetryDelay.
func (o retryOptions) randRetryDelay(attempt int) time.Duration {
	if o.initialRetryDelay <= 0 {
		return 0
	}

	halfDelay := o.initialRetryDelay / 2
	randDelay := prand.Int63n(int64(o.initialRetryDelay)) //nolint:gosec

	delay := halfDelay + time.Duration(randDelay)
	if attempt == 0 {
		return min(delay, o.maxRetryDelay)
	}

	factor := time.Duration(math.Pow(2, math.Min(float64(attempt), 32)))
	delay *= factor //nolint:durationcheck

	if delay > o.maxRetryDelay || delay <= 0 {
		return o.maxRetryDelay
	}

	return delay
}

// withRetry runs op until it succeeds, fails with an error that is not a
// busy or locked database, or the retries run out. Errors from op are
// mapped through MapSQLError before being inspected.
func (o retryOptions) withRetry(ctx context.Context, op func() error) error {
	for i := 0; i < o.numRetries; i++ {
		err := op()
		if err == nil {
			return nil
		}

		dbErr := MapSQLError(err)
		if !IsSerializationOrDeadlockError(dbErr) {
			return dbErr
		}

		delay := o.randRetryDelay(i)
		log.DebugS(ctx, "Retrying journal write on busy database",
			"attempt_number", i, "delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return ErrRetriesExceeded
}
