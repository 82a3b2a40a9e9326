package handle

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("handle")

var lockWait = metrics.GetOrCreateHistogram("timesman_store_lock_wait_seconds")

// Shared is the single, process wide handle to the active backend.
// Every access to the backend goes through WithLock (or Do), which holds the
// exclusive lock for the whole call, so at most one backend call is in flight.
type Shared struct {
	store       store.IStore
	sem         chan struct{}
	callTimeout time.Duration
	lockTimeout time.Duration

	calls   atomic.Uint64
	errors  atomic.Uint64
	waiting atomic.Int64
	closed  atomic.Bool
}

// Option configures a Shared handle.
type Option func(*Shared)

// WithCallTimeout bounds the context handed to the backend. 0 disables the timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(h *Shared) {
		h.callTimeout = d
	}
}

// WithLockTimeout bounds how long a caller waits for the lock. 0 disables the timeout.
func WithLockTimeout(d time.Duration) Option {
	return func(h *Shared) {
		h.lockTimeout = d
	}
}

// New wraps s in a Shared handle. The handle takes ownership of s.
func New(s store.IStore, opts ...Option) *Shared {
	h := &Shared{
		store: s,
		sem:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stats is a snapshot of the handle's counters.
type Stats struct {
	Calls   uint64 // finished backend calls
	Errors  uint64 // calls that returned an error (including lock failures)
	Waiting int64  // callers currently waiting for the lock
}

// Stats returns the current counters.
func (h *Shared) Stats() Stats {
	return Stats{
		Calls:   h.calls.Load(),
		Errors:  h.errors.Load(),
		Waiting: h.waiting.Load(),
	}
}

// WithLock acquires the lock, runs fn with the backend and releases the lock on
// every exit path (including a panic in fn).
// op names the operation for logs and metrics.
func WithLock[R any](ctx context.Context, h *Shared, op string, fn func(ctx context.Context, s store.IStore) (R, error)) (R, error) {
	var zero R

	release, err := h.acquire(ctx, op)
	if err != nil {
		h.countError(op)
		return zero, err
	}
	defer release()

	callCtx := ctx
	if h.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.callTimeout)
		defer cancel()
	}

	res, err := fn(callCtx, h.store)
	h.calls.Add(1)
	metrics.GetOrCreateCounter(fmt.Sprintf(`timesman_store_calls_total{op=%q}`, op)).Inc()
	if err != nil {
		h.countError(op)
		Logger.Debugf("%s failed: %v", op, err)
		return zero, err
	}
	return res, nil
}

// Do is WithLock for calls without a result.
func (h *Shared) Do(ctx context.Context, op string, fn func(ctx context.Context, s store.IStore) error) error {
	_, err := WithLock(ctx, h, op, func(ctx context.Context, s store.IStore) (struct{}, error) {
		return struct{}{}, fn(ctx, s)
	})
	return err
}

// Close closes the backend once all in-flight calls are done.
// Calls after Close fail with store.RetCUnavailable.
func (h *Shared) Close() error {
	return h.Do(context.Background(), "close", func(_ context.Context, s store.IStore) error {
		if h.closed.Swap(true) {
			return nil
		}
		return s.Close()
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// acquire waits for the lock until it is free, ctx ends or the lock timeout expires.
func (h *Shared) acquire(ctx context.Context, op string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Errorf(store.RetCUnavailable, "%s: %v", op, err)
	}

	start := time.Now()
	h.waiting.Add(1)
	defer h.waiting.Add(-1)

	var timeout <-chan time.Time
	if h.lockTimeout > 0 {
		timer := time.NewTimer(h.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, store.Errorf(store.RetCUnavailable, "%s: waiting for store: %v", op, ctx.Err())
	case <-timeout:
		Logger.Warningf("%s: store lock not acquired within %s", op, h.lockTimeout)
		return nil, store.Errorf(store.RetCUnavailable, "%s: store busy for %s", op, h.lockTimeout)
	}
	lockWait.UpdateDuration(start)

	if h.closed.Load() && op != "close" {
		<-h.sem
		return nil, store.Errorf(store.RetCUnavailable, "%s: store is closed", op)
	}

	return func() { <-h.sem }, nil
}

func (h *Shared) countError(op string) {
	h.errors.Add(1)
	metrics.GetOrCreateCounter(fmt.Sprintf(`timesman_store_errors_total{op=%q}`, op)).Inc()
}
