package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errCollision = errors.New("collision")

func isCollision(err error) bool { return errors.Is(err, errCollision) }

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, isCollision, func(attempt int) error {
		calls++
		if attempt < 3 {
			return errCollision
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), 5, isCollision, func(int) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestDoExhausts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, isCollision, func(int) error {
		calls++
		return errCollision
	})

	var exhausted *ErrExhausted
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 5, exhausted.Attempts)
	require.ErrorIs(t, err, errCollision)
	require.Equal(t, 5, calls)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, 3, isCollision, func(int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
