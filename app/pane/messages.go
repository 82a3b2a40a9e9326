package pane

import (
	"github.com/ValentinKolb/timesman/lib/store"
)

// TimesData is the cached state of one collection in the select pane
type TimesData struct {
	Times  store.Collection
	Latest *store.Entry
}

// Message is a result sent by a background task to the pane that spawned it
type Message interface {
	message()
}

// Created reports a new collection
type Created struct {
	Collection store.Collection
}

// Refreshed carries a complete new view of all collections, without latest entries.
// Cached collections newer than the view survive it.
type Refreshed struct {
	Times map[uint64]*TimesData
}

// LatestUpdated carries the latest entry of one collection
type LatestUpdated struct {
	ID    uint64
	Entry store.Entry
}

// EntriesLoaded carries all entries of the collection of a times pane
type EntriesLoaded struct {
	Entries []store.Entry
}

// EntryAppended reports a new entry of the collection of a times pane
type EntryAppended struct {
	Entry store.Entry
}

// Failed reports a failed backend call
type Failed struct {
	Description string
}

func (Created) message()       {}
func (Refreshed) message()     {}
func (LatestUpdated) message() {}
func (EntriesLoaded) message() {}
func (EntryAppended) message() {}
func (Failed) message()        {}
