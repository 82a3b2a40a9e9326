package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnRuns(t *testing.T) {
	r := NewRunner(context.Background())
	defer r.Shutdown(time.Second)

	done := make(chan struct{})
	require.True(t, r.Spawn(context.Background(), "run", func(ctx context.Context) {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for task")
	}
	require.Equal(t, uint64(1), r.Stats().Spawned)
}

func TestPanicIsRecovered(t *testing.T) {
	r := NewRunner(context.Background())

	r.Spawn(context.Background(), "boom", func(ctx context.Context) {
		panic("boom")
	})

	require.True(t, r.Shutdown(time.Second))
	require.Equal(t, uint64(1), r.Stats().Panicked)
	require.Equal(t, int64(0), r.Active())
}

func TestTaskContextEndsWithCaller(t *testing.T) {
	r := NewRunner(context.Background())
	defer r.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	ended := make(chan struct{})
	r.Spawn(ctx, "wait", func(ctx context.Context) {
		<-ctx.Done()
		close(ended)
	})

	cancel()
	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("Task context not cancelled with its parent")
	}
}

func TestShutdownCancelsTasks(t *testing.T) {
	r := NewRunner(context.Background())

	var cancelled atomic.Int32
	for i := 0; i < 5; i++ {
		r.Spawn(context.Background(), "wait", func(ctx context.Context) {
			<-ctx.Done()
			cancelled.Add(1)
		})
	}

	require.True(t, r.Shutdown(time.Second))
	require.Equal(t, int32(5), cancelled.Load())
	require.False(t, r.Spawn(context.Background(), "late", func(ctx context.Context) {}))
}

func TestShutdownTimeout(t *testing.T) {
	r := NewRunner(context.Background())

	release := make(chan struct{})
	defer close(release)
	r.Spawn(context.Background(), "stubborn", func(ctx context.Context) {
		<-release
	})

	require.False(t, r.Shutdown(20*time.Millisecond))
	require.Equal(t, int64(1), r.Active())
}
