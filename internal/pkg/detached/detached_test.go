package detached

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerSwallowsFailuresAndPanics(t *testing.T) {
	r := NewRunner(time.Second, nil)

	var mu sync.Mutex
	failed := map[string]error{}
	r.OnFailure(func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed[name] = err
	})

	var ok atomic.Int32
	r.Go("ok", func(context.Context) error { ok.Add(1); return nil })
	r.Go("err", func(context.Context) error { return errors.New("store down") })
	r.Go("panic", func(context.Context) error { panic("nil map") })

	require.NoError(t, r.Wait(context.Background()))
	require.Equal(t, int32(1), ok.Load())
	require.Len(t, failed, 2)
	require.EqualError(t, failed["err"], "store down")
	require.Contains(t, failed["panic"].Error(), "nil map")
}

func TestRunnerAppliesDeadline(t *testing.T) {
	r := NewRunner(20*time.Millisecond, nil)

	var got error
	r.OnFailure(func(_ string, err error) { got = err })
	r.Go("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, r.Wait(context.Background()))
	require.ErrorIs(t, got, context.DeadlineExceeded)
}

func TestWaitHonorsContext(t *testing.T) {
	r := NewRunner(time.Minute, nil)
	release := make(chan struct{})
	r.Go("blocked", func(context.Context) error { <-release; return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
	close(release)
	require.NoError(t, r.Wait(context.Background()))
}
