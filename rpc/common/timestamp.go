package common

import (
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
)

// --------------------------------------------------------------------------
// Wire types
// --------------------------------------------------------------------------

// Timestamp is the wire representation of a point in time: seconds and
// nanoseconds since the unix epoch (UTC).
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// WireCollection is the wire representation of a store.Collection.
type WireCollection struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// WireEntry is the wire representation of a store.Entry.
type WireEntry struct {
	ID           uint64    `json:"id"`
	CollectionID uint64    `json:"collection_id"`
	Body         string    `json:"body"`
	CreatedAt    Timestamp `json:"created_at"`
}

// --------------------------------------------------------------------------
// Conversion
// --------------------------------------------------------------------------

// ToTimestamp converts t to its wire representation without loss.
func ToTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// Time converts the wire representation back to a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Valid reports whether the nanoseconds are in range.
func (ts Timestamp) Valid() bool {
	return ts.Nanos >= 0 && ts.Nanos < 1e9
}

// ToWireCollection converts a collection to its wire representation.
func ToWireCollection(c store.Collection) WireCollection {
	w := WireCollection{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: ToTimestamp(c.CreatedAt),
	}
	if c.UpdatedAt != nil {
		ts := ToTimestamp(*c.UpdatedAt)
		w.UpdatedAt = &ts
	}
	return w
}

// ToWireCollections converts a list of collections.
func ToWireCollections(cs []store.Collection) []WireCollection {
	if cs == nil {
		return nil
	}
	out := make([]WireCollection, len(cs))
	for i, c := range cs {
		out[i] = ToWireCollection(c)
	}
	return out
}

// Collection converts the wire representation back to a store.Collection.
// Returns a store.RetCMalformed error for out of range timestamps.
func (w WireCollection) Collection() (store.Collection, error) {
	if !w.CreatedAt.Valid() || (w.UpdatedAt != nil && !w.UpdatedAt.Valid()) {
		return store.Collection{}, store.Errorf(store.RetCMalformed, "collection %d: invalid timestamp", w.ID)
	}
	c := store.Collection{
		ID:        w.ID,
		Title:     w.Title,
		CreatedAt: w.CreatedAt.Time(),
	}
	if w.UpdatedAt != nil {
		t := w.UpdatedAt.Time()
		c.UpdatedAt = &t
	}
	return c, nil
}

// ToWireEntry converts an entry to its wire representation.
func ToWireEntry(e store.Entry) WireEntry {
	return WireEntry{
		ID:           e.ID,
		CollectionID: e.CollectionID,
		Body:         e.Body,
		CreatedAt:    ToTimestamp(e.CreatedAt),
	}
}

// ToWireEntries converts a list of entries.
func ToWireEntries(es []store.Entry) []WireEntry {
	if es == nil {
		return nil
	}
	out := make([]WireEntry, len(es))
	for i, e := range es {
		out[i] = ToWireEntry(e)
	}
	return out
}

// Entry converts the wire representation back to a store.Entry.
// Returns a store.RetCMalformed error for out of range timestamps.
func (w WireEntry) Entry() (store.Entry, error) {
	if !w.CreatedAt.Valid() {
		return store.Entry{}, store.Errorf(store.RetCMalformed, "entry %d: invalid timestamp", w.ID)
	}
	return store.Entry{
		ID:           w.ID,
		CollectionID: w.CollectionID,
		Body:         w.Body,
		CreatedAt:    w.CreatedAt.Time(),
	}, nil
}
