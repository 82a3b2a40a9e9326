package testing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
)

// StoreFactory is a function that creates a new, empty instance of an IStore implementation
type StoreFactory func(t *testing.T) store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
// Every subtest gets a fresh store from the factory, the store is closed after the subtest.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateAndList", func(t *testing.T) {
			testCreateAndList(t, open(t, factory))
		})

		t.Run("UniqueIDs", func(t *testing.T) {
			testUniqueIDs(t, open(t, factory))
		})

		t.Run("Conflict", func(t *testing.T) {
			testConflict(t, open(t, factory))
		})

		t.Run("InvalidArguments", func(t *testing.T) {
			testInvalidArguments(t, open(t, factory))
		})

		t.Run("LatestOfEmpty", func(t *testing.T) {
			testLatestOfEmpty(t, open(t, factory))
		})

		t.Run("AppendAndLatest", func(t *testing.T) {
			testAppendAndLatest(t, open(t, factory))
		})

		t.Run("NotFound", func(t *testing.T) {
			testNotFound(t, open(t, factory))
		})

		t.Run("Timestamps", func(t *testing.T) {
			testTimestamps(t, open(t, factory))
		})

		t.Run("CancelledContext", func(t *testing.T) {
			testCancelledContext(t, open(t, factory))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, open(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// open creates a store and registers its Close as cleanup
func open(t *testing.T, factory StoreFactory) store.IStore {
	s := factory(t)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("closing store: %v", err)
		}
	})
	return s
}

// requireCode fails the test if err does not carry the expected code
func requireCode(t *testing.T, err error, code store.RetCode, op string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error with code %s, got nil", op, code)
	}
	if got := store.CodeOf(err); got != code {
		t.Fatalf("%s: expected error code %s, got %s (%v)", op, code, got, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreateAndList(t *testing.T, s store.IStore) {
	ctx := context.Background()

	list, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing empty store: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("Expected empty store, got %d collections", len(list))
	}

	created, err := s.CreateCollection(ctx, "20240101")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	if created.ID == 0 {
		t.Errorf("Expected a backend assigned id, got 0")
	}
	if created.Title != "20240101" {
		t.Errorf("Expected title 20240101, got %q", created.Title)
	}
	if created.UpdatedAt != nil {
		t.Errorf("Expected no update timestamp on a fresh collection, got %v", created.UpdatedAt)
	}

	list, err = s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing collections: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected exactly one collection, got %d", len(list))
	}
	if list[0].ID != created.ID || list[0].Title != created.Title {
		t.Errorf("Listed collection %+v does not match created %+v", list[0], created)
	}
	if !list[0].CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Listed creation time %v does not match %v", list[0].CreatedAt, created.CreatedAt)
	}
}

func testUniqueIDs(t *testing.T, s store.IStore) {
	ctx := context.Background()
	seen := make(map[uint64]string)

	for i := 0; i < 20; i++ {
		title := fmt.Sprintf("unique-%d", i)
		c, err := s.CreateCollection(ctx, title)
		if err != nil {
			t.Fatalf("Unexpected error creating %s: %v", title, err)
		}
		if prev, ok := seen[c.ID]; ok {
			t.Fatalf("Id %d assigned twice (%s and %s)", c.ID, prev, title)
		}
		seen[c.ID] = title
	}

	list, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing collections: %v", err)
	}
	if len(list) != len(seen) {
		t.Fatalf("Expected %d collections, got %d", len(seen), len(list))
	}
	for _, c := range list {
		if seen[c.ID] != c.Title {
			t.Errorf("Collection %d has title %q, expected %q", c.ID, c.Title, seen[c.ID])
		}
	}
}

func testConflict(t *testing.T, s store.IStore) {
	ctx := context.Background()

	if _, err := s.CreateCollection(ctx, "duplicate"); err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	_, err := s.CreateCollection(ctx, "duplicate")
	requireCode(t, err, store.RetCConflict, "CreateCollection(duplicate)")
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("Expected errors.Is(err, ErrConflict) to hold for %v", err)
	}

	list, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing collections: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Failed create must not add a collection, got %d", len(list))
	}
}

func testInvalidArguments(t *testing.T, s store.IStore) {
	ctx := context.Background()

	_, err := s.CreateCollection(ctx, "   ")
	requireCode(t, err, store.RetCInvalid, "CreateCollection(blank)")

	c, err := s.CreateCollection(ctx, "  padded  ")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	if c.Title != "padded" {
		t.Errorf("Expected trimmed title, got %q", c.Title)
	}

	_, err = s.AppendEntry(ctx, c.ID, "")
	requireCode(t, err, store.RetCInvalid, "AppendEntry(empty)")
}

func testLatestOfEmpty(t *testing.T, s store.IStore) {
	ctx := context.Background()

	c, err := s.CreateCollection(ctx, "empty")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}

	_, loaded, err := s.LatestEntry(ctx, c.ID)
	if err != nil {
		t.Fatalf("Latest entry of an empty collection must not fail: %v", err)
	}
	if loaded {
		t.Errorf("Expected no latest entry for an empty collection")
	}

	entries, err := s.ListEntries(ctx, c.ID)
	if err != nil {
		t.Fatalf("Unexpected error listing entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func testAppendAndLatest(t *testing.T, s store.IStore) {
	ctx := context.Background()

	c, err := s.CreateCollection(ctx, "posts")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	other, err := s.CreateCollection(ctx, "other")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}

	bodies := []string{"first", "second", "third"}
	var last store.Entry
	for _, body := range bodies {
		last, err = s.AppendEntry(ctx, c.ID, body)
		if err != nil {
			t.Fatalf("Unexpected error appending %q: %v", body, err)
		}
		if last.Body != body {
			t.Errorf("Expected body %q, got %q", body, last.Body)
		}
		if last.CollectionID != c.ID {
			t.Errorf("Expected collection id %d, got %d", c.ID, last.CollectionID)
		}
	}

	latest, loaded, err := s.LatestEntry(ctx, c.ID)
	if err != nil {
		t.Fatalf("Unexpected error reading latest entry: %v", err)
	}
	if !loaded {
		t.Fatalf("Expected a latest entry")
	}
	if latest.ID != last.ID || latest.Body != "third" {
		t.Errorf("Expected latest entry %+v, got %+v", last, latest)
	}

	entries, err := s.ListEntries(ctx, c.ID)
	if err != nil {
		t.Fatalf("Unexpected error listing entries: %v", err)
	}
	if len(entries) != len(bodies) {
		t.Fatalf("Expected %d entries, got %d", len(bodies), len(entries))
	}
	for i, e := range entries {
		if e.Body != bodies[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, bodies[i], e.Body)
		}
	}

	// entries are scoped to exactly one collection
	_, loaded, err = s.LatestEntry(ctx, other.ID)
	if err != nil {
		t.Fatalf("Unexpected error reading latest entry: %v", err)
	}
	if loaded {
		t.Errorf("Entries leaked into another collection")
	}

	list, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing collections: %v", err)
	}
	for _, lc := range list {
		if lc.ID == c.ID && lc.UpdatedAt == nil {
			t.Errorf("Expected update timestamp after append")
		}
	}
}

func testNotFound(t *testing.T, s store.IStore) {
	ctx := context.Background()
	const unknown = 4242

	_, err := s.AppendEntry(ctx, unknown, "lost")
	requireCode(t, err, store.RetCNotFound, "AppendEntry(unknown)")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected errors.Is(err, ErrNotFound) to hold for %v", err)
	}

	_, err = s.ListEntries(ctx, unknown)
	requireCode(t, err, store.RetCNotFound, "ListEntries(unknown)")

	_, _, err = s.LatestEntry(ctx, unknown)
	requireCode(t, err, store.RetCNotFound, "LatestEntry(unknown)")
}

func testTimestamps(t *testing.T, s store.IStore) {
	ctx := context.Background()
	before := time.Now().Add(-time.Minute)
	after := time.Now().Add(time.Minute)

	c, err := s.CreateCollection(ctx, "clock")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	if c.CreatedAt.Before(before) || c.CreatedAt.After(after) {
		t.Errorf("Creation time %v is not close to now", c.CreatedAt)
	}
	if c.CreatedAt.Nanosecond() != 0 {
		t.Errorf("Creation time %v should be truncated to seconds", c.CreatedAt)
	}

	e, err := s.AppendEntry(ctx, c.ID, "tick")
	if err != nil {
		t.Fatalf("Unexpected error appending entry: %v", err)
	}
	if e.CreatedAt.Before(before) || e.CreatedAt.After(after) {
		t.Errorf("Entry time %v is not close to now", e.CreatedAt)
	}
	if e.CreatedAt.Nanosecond() != 0 {
		t.Errorf("Entry time %v should be truncated to seconds", e.CreatedAt)
	}
}

func testCancelledContext(t *testing.T, s store.IStore) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListCollections(ctx)
	requireCode(t, err, store.RetCUnavailable, "ListCollections(cancelled)")

	_, err = s.CreateCollection(ctx, "never")
	requireCode(t, err, store.RetCUnavailable, "CreateCollection(cancelled)")

	// the store must still be usable afterwards
	if _, err := s.CreateCollection(context.Background(), "afterwards"); err != nil {
		t.Fatalf("Store unusable after cancelled call: %v", err)
	}
}

func testRealisticUsage(t *testing.T, s store.IStore) {
	ctx := context.Background()

	ids := make([]uint64, 0, 5)
	for day := 1; day <= 5; day++ {
		c, err := s.CreateCollection(ctx, fmt.Sprintf("202401%02d", day))
		if err != nil {
			t.Fatalf("Unexpected error creating collection: %v", err)
		}
		ids = append(ids, c.ID)
	}

	for i, id := range ids {
		for j := 0; j <= i; j++ {
			if _, err := s.AppendEntry(ctx, id, fmt.Sprintf("note %d of day %d", j, i)); err != nil {
				t.Fatalf("Unexpected error appending entry: %v", err)
			}
		}
	}

	for i, id := range ids {
		entries, err := s.ListEntries(ctx, id)
		if err != nil {
			t.Fatalf("Unexpected error listing entries: %v", err)
		}
		if len(entries) != i+1 {
			t.Errorf("Collection %d: expected %d entries, got %d", id, i+1, len(entries))
		}

		latest, loaded, err := s.LatestEntry(ctx, id)
		if err != nil || !loaded {
			t.Fatalf("Expected latest entry for %d (loaded=%v, err=%v)", id, loaded, err)
		}
		expected := fmt.Sprintf("note %d of day %d", i, i)
		if latest.Body != expected {
			t.Errorf("Collection %d: expected latest %q, got %q", id, expected, latest.Body)
		}
	}
}
