package bridge

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the capacity used by the application for every node's channel.
const DefaultCapacity = 32

// ErrReceiverDropped is returned by Send once the receiving side was dropped.
var ErrReceiverDropped = errors.New("bridge: receiver dropped")

// shared is the state both ends of one channel point to
type shared[T any] struct {
	ch      chan T
	dropped chan struct{}
	once    sync.Once
}

// Sender is the producing end of a channel.
// Senders are values: copies send into the same channel and may be used from
// any number of goroutines concurrently.
type Sender[T any] struct {
	s *shared[T]
}

// Receiver is the consuming end of a channel. It must be used by one goroutine only.
type Receiver[T any] struct {
	s *shared[T]
}

// New creates a bounded FIFO channel with the given capacity (at least 1).
func New[T any](capacity int) (Sender[T], *Receiver[T]) {
	if capacity < 1 {
		capacity = 1
	}
	s := &shared[T]{
		ch:      make(chan T, capacity),
		dropped: make(chan struct{}),
	}
	return Sender[T]{s: s}, &Receiver[T]{s: s}
}

// --------------------------------------------------------------------------
// Sender
// --------------------------------------------------------------------------

// Send enqueues msg. If the channel is full, Send blocks until a slot frees up,
// the receiver is dropped (ErrReceiverDropped) or ctx ends (ctx.Err()).
// Messages of one sender arrive in the order they were sent.
func (s Sender[T]) Send(ctx context.Context, msg T) error {
	// a dropped receiver wins even if there is space left
	select {
	case <-s.s.dropped:
		return ErrReceiverDropped
	default:
	}

	select {
	case s.s.ch <- msg:
		return nil
	case <-s.s.dropped:
		return ErrReceiverDropped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed reports whether the receiver was dropped.
func (s Sender[T]) Closed() bool {
	select {
	case <-s.s.dropped:
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Receiver
// --------------------------------------------------------------------------

// TryRecv returns the oldest pending message without blocking.
// The boolean is false if no message is pending.
func (r *Receiver[T]) TryRecv() (T, bool) {
	select {
	case msg := <-r.s.ch:
		return msg, true
	default:
		var zero T
		return zero, false
	}
}

// Drain applies fn to every pending message in FIFO order and returns their count.
// Messages sent while draining may or may not be included.
func (r *Receiver[T]) Drain(fn func(T)) int {
	n := 0
	for {
		msg, ok := r.TryRecv()
		if !ok {
			return n
		}
		fn(msg)
		n++
	}
}

// Len returns the number of pending messages.
func (r *Receiver[T]) Len() int {
	return len(r.s.ch)
}

// Cap returns the capacity of the channel.
func (r *Receiver[T]) Cap() int {
	return cap(r.s.ch)
}

// Drop releases the receiving side. Blocked and future sends fail with
// ErrReceiverDropped. Drop may be called multiple times.
func (r *Receiver[T]) Drop() {
	r.s.once.Do(func() {
		close(r.s.dropped)
	})
}
