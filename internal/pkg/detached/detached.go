// Package detached runs best-effort side effects after a primary write has
// committed. Tasks never report back to the caller: failures and panics are
// logged, counted and dropped. There is no retry queue.
package detached

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
)

// Task is a unit of detached work. The context carries the runner's per-task deadline.
type Task func(ctx context.Context) error

type Runner struct {
	wg        sync.WaitGroup
	timeout   time.Duration
	log       *logger.Logger
	onFailure func(name string, err error)
}

func NewRunner(timeout time.Duration, log *logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Default().Named("detached")
	}
	return &Runner{timeout: timeout, log: log}
}

// OnFailure registers a hook called once for every failed task
func (r *Runner) OnFailure(fn func(name string, err error)) {
	r.onFailure = fn
}

// Go hands fn off to a background goroutine. The task context is detached from
// any request context so that a finished HTTP request does not cancel it.
func (r *Runner) Go(name string, fn Task) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.run(ctx, fn); err != nil {
			r.log.Warn("detached task %s dropped: %v", name, err)
			if r.onFailure != nil {
				r.onFailure(name, err)
			}
		}
	}()
}

func (r *Runner) run(ctx context.Context, fn Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

// Wait blocks until all handed-off tasks finish or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
