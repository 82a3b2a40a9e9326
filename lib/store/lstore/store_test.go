package lstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/timesman/lib/store"
	storetesting "github.com/ValentinKolb/timesman/lib/store/testing"
)

func newTestStore(t *testing.T) store.IStore {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	if err != nil {
		t.Fatalf("Failed to open local store: %v", err)
	}
	return s
}

func TestLocalStore(t *testing.T) {
	storetesting.RunStoreTests(t, "LocalStore", newTestStore)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "times.db")
	ctx := context.Background()

	s, err := NewLocalStore(path)
	if err != nil {
		t.Fatalf("Failed to open local store: %v", err)
	}
	c, err := s.CreateCollection(ctx, "persistent")
	if err != nil {
		t.Fatalf("Unexpected error creating collection: %v", err)
	}
	if _, err := s.AppendEntry(ctx, c.ID, "still here"); err != nil {
		t.Fatalf("Unexpected error appending entry: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Unexpected error closing store: %v", err)
	}

	// migrations must be a no-op on the second open
	s, err = NewLocalStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen local store: %v", err)
	}
	defer s.Close()

	list, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Unexpected error listing collections: %v", err)
	}
	if len(list) != 1 || list[0].Title != "persistent" {
		t.Fatalf("Expected the persisted collection, got %+v", list)
	}

	latest, loaded, err := s.LatestEntry(ctx, c.ID)
	if err != nil || !loaded {
		t.Fatalf("Expected the persisted entry (loaded=%v, err=%v)", loaded, err)
	}
	if latest.Body != "still here" {
		t.Errorf("Expected body %q, got %q", "still here", latest.Body)
	}
}

func TestEmptyPath(t *testing.T) {
	_, err := NewLocalStore("")
	if store.CodeOf(err) != store.RetCInvalid {
		t.Fatalf("Expected RetCInvalid for an empty path, got %v", err)
	}
}
