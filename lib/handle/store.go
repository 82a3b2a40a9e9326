package handle

import (
	"context"

	"github.com/ValentinKolb/timesman/lib/store"
)

// lockedStore exposes a Shared handle as a store.IStore, every call holds the lock
// for its whole duration. Servers use it to serve requests from many goroutines.
type lockedStore struct {
	h *Shared
}

// Store returns a store.IStore whose calls are serialized through h.
// Closing it closes h.
func (h *Shared) Store() store.IStore {
	return &lockedStore{h: h}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (l *lockedStore) ListCollections(ctx context.Context) ([]store.Collection, error) {
	return WithLock(ctx, l.h, "list_collections", func(ctx context.Context, s store.IStore) ([]store.Collection, error) {
		return s.ListCollections(ctx)
	})
}

func (l *lockedStore) CreateCollection(ctx context.Context, title string) (store.Collection, error) {
	return WithLock(ctx, l.h, "create_collection", func(ctx context.Context, s store.IStore) (store.Collection, error) {
		return s.CreateCollection(ctx, title)
	})
}

func (l *lockedStore) LatestEntry(ctx context.Context, collectionID uint64) (store.Entry, bool, error) {
	type latest struct {
		entry  store.Entry
		loaded bool
	}
	res, err := WithLock(ctx, l.h, "latest_entry", func(ctx context.Context, s store.IStore) (latest, error) {
		e, ok, err := s.LatestEntry(ctx, collectionID)
		return latest{entry: e, loaded: ok}, err
	})
	return res.entry, res.loaded, err
}

func (l *lockedStore) AppendEntry(ctx context.Context, collectionID uint64, body string) (store.Entry, error) {
	return WithLock(ctx, l.h, "append_entry", func(ctx context.Context, s store.IStore) (store.Entry, error) {
		return s.AppendEntry(ctx, collectionID, body)
	})
}

func (l *lockedStore) ListEntries(ctx context.Context, collectionID uint64) ([]store.Entry, error) {
	return WithLock(ctx, l.h, "list_entries", func(ctx context.Context, s store.IStore) ([]store.Entry, error) {
		return s.ListEntries(ctx, collectionID)
	})
}

func (l *lockedStore) Close() error {
	return l.h.Close()
}
