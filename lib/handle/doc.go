// Package handle implements the shared store handle of timesman: the single value
// through which every part of the process reaches the active backend.
//
// A Shared handle owns exactly one store.IStore and guards it with one exclusive
// lock. Every call holds the lock for its whole duration, so calls never overlap,
// no matter how many background tasks or server goroutines use the handle.
//
// Key Components:
//
//   - WithLock / Do: Acquire the lock, run a function with the backend and release
//     the lock on every exit path, including errors and panics. The lock is a
//     one-slot channel, so waiting can be abandoned when the context ends or the
//     lock timeout expires (both fail with store.RetCUnavailable).
//
//   - Timeouts: WithCallTimeout bounds the context handed to the backend,
//     WithLockTimeout bounds the wait for the lock. Both are disabled by 0.
//
//   - Store: An store.IStore view of the handle for code that expects a plain
//     store (the RPC and REST servers).
//
//   - Metrics: timesman_store_lock_wait_seconds (histogram) and
//     timesman_store_calls_total / timesman_store_errors_total per operation,
//     registered with VictoriaMetrics' default set.
//
// Usage Example:
//
//	h := handle.New(s, handle.WithCallTimeout(10*time.Second))
//	defer h.Close()
//
//	list, err := handle.WithLock(ctx, h, "list_collections",
//	    func(ctx context.Context, s store.IStore) ([]store.Collection, error) {
//	        return s.ListCollections(ctx)
//	    })
//
// Never send on a channel while holding the lock: a full channel would block
// every other caller of the handle.
package handle
