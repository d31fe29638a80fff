package retry

import (
	"context"
	"fmt"
)

// ErrExhausted wraps the last error once every attempt has failed with a retryable error
type ErrExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrExhausted) Unwrap() error { return e.Last }

// Do runs fn up to maxAttempts times, sequentially. It stops at the first success,
// at the first error isRetryable rejects, or when ctx is done. The attempt number
// passed to fn starts at 1.
func Do(ctx context.Context, maxAttempts int, isRetryable func(error) bool, fn func(attempt int) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(attempt)
		if last == nil {
			return nil
		}
		if !isRetryable(last) {
			return last
		}
	}

	return &ErrExhausted{Attempts: maxAttempts, Last: last}
}
