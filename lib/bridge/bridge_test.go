package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

// TestBasicOperations tests basic send and receive functionality
func TestBasicOperations(t *testing.T) {
	tx, rx := New[int](16)
	defer rx.Drop()

	for i := 0; i < 10; i++ {
		if err := tx.Send(context.Background(), i); err != nil {
			t.Fatalf("Failed to send item %d: %v", i, err)
		}
	}

	if rx.Len() != 10 {
		t.Fatalf("Expected 10 pending items, got %d", rx.Len())
	}

	for i := 0; i < 10; i++ {
		val, ok := rx.TryRecv()
		if !ok {
			t.Fatalf("Expected item %d, channel was empty", i)
		}
		if val != i {
			t.Errorf("Expected %d, got %d", i, val)
		}
	}

	if val, ok := rx.TryRecv(); ok {
		t.Errorf("Channel should be empty, but got %v", val)
	}
}

// TestCapacityClamped verifies that a capacity below one is raised to one
func TestCapacityClamped(t *testing.T) {
	_, rx := New[int](0)
	if rx.Cap() != 1 {
		t.Fatalf("Expected capacity 1, got %d", rx.Cap())
	}
}

// TestTryRecvNeverBlocks verifies that receiving on an empty channel returns immediately
func TestTryRecvNeverBlocks(t *testing.T) {
	_, rx := New[string](1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if _, ok := rx.TryRecv(); ok {
				t.Errorf("Unexpected message")
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TryRecv blocked on an empty channel")
	}
}

// TestBackpressure verifies that a full channel blocks the sender until a slot frees
func TestBackpressure(t *testing.T) {
	tx, rx := New[int](2)
	defer rx.Drop()

	_ = tx.Send(context.Background(), 1)
	_ = tx.Send(context.Background(), 2)

	sent := make(chan error, 1)
	go func() {
		sent <- tx.Send(context.Background(), 3)
	}()

	select {
	case err := <-sent:
		t.Fatalf("Send on a full channel returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
		// expected, sender is blocked
	}

	if val, ok := rx.TryRecv(); !ok || val != 1 {
		t.Fatalf("Expected 1, got %v (ok=%v)", val, ok)
	}

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("Unexpected send error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Sender not released after a slot freed")
	}

	var got []int
	rx.Drain(func(v int) { got = append(got, v) })
	if fmt.Sprint(got) != "[2 3]" {
		t.Errorf("Expected [2 3], got %v", got)
	}
}

// TestSendCancelled verifies that a blocked send honors its context
func TestSendCancelled(t *testing.T) {
	tx, rx := New[int](1)
	defer rx.Drop()
	_ = tx.Send(context.Background(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tx.Send(ctx, 2)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if rx.Len() != 1 {
		t.Errorf("Cancelled send must not enqueue, got %d pending", rx.Len())
	}
}

// TestDroppedReceiver verifies that sends fail once the receiver is gone
func TestDroppedReceiver(t *testing.T) {
	tx, rx := New[int](4)

	if tx.Closed() {
		t.Fatal("Sender reports closed before drop")
	}
	rx.Drop()
	rx.Drop() // idempotent

	if !tx.Closed() {
		t.Fatal("Sender does not report closed after drop")
	}
	if err := tx.Send(context.Background(), 1); !errors.Is(err, ErrReceiverDropped) {
		t.Fatalf("Expected ErrReceiverDropped, got %v", err)
	}
}

// TestDropReleasesBlockedSender verifies that a sender blocked on a full channel
// is released when the receiver is dropped
func TestDropReleasesBlockedSender(t *testing.T) {
	tx, rx := New[int](1)
	_ = tx.Send(context.Background(), 1)

	sent := make(chan error, 1)
	go func() {
		sent <- tx.Send(context.Background(), 2)
	}()

	time.Sleep(10 * time.Millisecond)
	rx.Drop()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrReceiverDropped) {
			t.Fatalf("Expected ErrReceiverDropped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Blocked sender not released by drop")
	}
}

// TestDrainIdempotent verifies that draining twice without new messages changes nothing
func TestDrainIdempotent(t *testing.T) {
	tx, rx := New[int](8)
	defer rx.Drop()

	for i := 0; i < 5; i++ {
		_ = tx.Send(context.Background(), i)
	}

	sum := 0
	if n := rx.Drain(func(v int) { sum += v }); n != 5 {
		t.Fatalf("Expected 5 drained messages, got %d", n)
	}
	if n := rx.Drain(func(v int) { sum += v }); n != 0 {
		t.Fatalf("Expected 0 drained messages on the second drain, got %d", n)
	}
	if sum != 10 {
		t.Errorf("Expected sum 10, got %d", sum)
	}
}

// TestConcurrentProducers verifies per-sender FIFO order with multiple producers
// and a small capacity
func TestConcurrentProducers(t *testing.T) {
	tx, rx := New[[2]int](4)
	defer rx.Drop()

	const numProducers = 8
	const itemsPerProducer = 500
	totalItems := numProducers * itemsPerProducer

	var wg sync.WaitGroup
	wg.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(producerID int, tx Sender[[2]int]) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				if err := tx.Send(context.Background(), [2]int{producerID, i}); err != nil {
					t.Errorf("Producer %d failed to send item %d: %v", producerID, i, err)
					return
				}
				if i%100 == 0 {
					runtime.Gosched()
				}
			}
		}(p, tx)
	}

	next := make([]int, numProducers)
	received := 0
	deadline := time.After(5 * time.Second)
	for received < totalItems {
		select {
		case <-deadline:
			t.Fatalf("Timeout waiting for items, received %d of %d", received, totalItems)
		default:
		}
		rx.Drain(func(v [2]int) {
			if v[1] != next[v[0]] {
				t.Errorf("Producer %d: expected item %d, got %d", v[0], next[v[0]], v[1])
			}
			next[v[0]] = v[1] + 1
			received++
		})
		runtime.Gosched()
	}

	wg.Wait()
	if rx.Len() != 0 {
		t.Errorf("Expected empty channel, got %d pending", rx.Len())
	}
}
