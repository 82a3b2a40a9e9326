package nav

import (
	"fmt"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
)

// Event is a navigation signal returned by a pane's Update.
// A nil Event means nothing happens.
type Event interface {
	fmt.Stringer
	event()
}

// Select opens the detail pane of a collection, using Handle if it is set
type Select struct {
	Handle     *handle.Shared
	Collection store.Collection
}

// OpenCollection opens the detail pane of a collection with the default handle
type OpenCollection struct {
	Collection store.Collection
}

// Pop closes the active pane
type Pop struct{}

// ShowLog opens the log pane
type ShowLog struct{}

// ShowConfig opens the config pane
type ShowConfig struct{}

func (Select) event()         {}
func (OpenCollection) event() {}
func (Pop) event()            {}
func (ShowLog) event()        {}
func (ShowConfig) event()     {}

func (e Select) String() string {
	return fmt.Sprintf("Select(%d %q)", e.Collection.ID, e.Collection.Title)
}

func (e OpenCollection) String() string {
	return fmt.Sprintf("OpenCollection(%d %q)", e.Collection.ID, e.Collection.Title)
}

func (Pop) String() string        { return "Pop" }
func (ShowLog) String() string    { return "ShowLog" }
func (ShowConfig) String() string { return "ShowConfig" }
