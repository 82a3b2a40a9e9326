package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

var Logger = logger.GetLogger("tasks")

// Runner runs background tasks on their own goroutines.
// A panicking task is logged and does not take the process down.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	active   atomic.Int64
	spawned  atomic.Uint64
	panicked atomic.Uint64
}

// NewRunner creates a runner whose tasks are cancelled when parent ends or
// Shutdown is called.
func NewRunner(parent context.Context) *Runner {
	ctx, cancel := context.WithCancel(parent)
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the runner's context, it ends on Shutdown.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// Spawn starts fn on a new goroutine. fn receives ctx merged with the runner's
// context: it ends when either ends.
// Spawn never blocks. After Shutdown, Spawn does nothing and returns false.
func (r *Runner) Spawn(ctx context.Context, name string, fn func(ctx context.Context)) bool {
	if r.ctx.Err() != nil {
		Logger.Warningf("task %s not started: runner is shut down", name)
		return false
	}

	taskCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(r.ctx, cancel)

	r.active.Add(1)
	r.spawned.Add(1)
	r.wg.Go(func() {
		defer r.active.Add(-1)
		defer stop()
		defer cancel()

		var catcher panics.Catcher
		catcher.Try(func() { fn(taskCtx) })
		if rec := catcher.Recovered(); rec != nil {
			r.panicked.Add(1)
			Logger.Errorf("task %s panicked: %v", name, rec.Value)
			Logger.Debugf("task %s stack:\n%s", name, rec.Stack)
		}
	})
	return true
}

// Shutdown cancels all tasks and waits at most timeout for them to finish.
// Returns false if some tasks were still running when the timeout expired.
func (r *Runner) Shutdown(timeout time.Duration) bool {
	r.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		Logger.Warningf("%d tasks still running after %s", r.active.Load(), timeout)
		return false
	}
}

// Stats is a snapshot of the runner's counters.
type Stats struct {
	Active   int64
	Spawned  uint64
	Panicked uint64
}

// Stats returns the current counters.
func (r *Runner) Stats() Stats {
	return Stats{
		Active:   r.active.Load(),
		Spawned:  r.spawned.Load(),
		Panicked: r.panicked.Load(),
	}
}

// Active returns the number of running tasks.
func (r *Runner) Active() int64 {
	return r.active.Load()
}
