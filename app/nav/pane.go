package nav

import (
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Input is everything a pane gets in one frame
type Input struct {
	// Keys pressed since the previous frame, in order
	Keys []tea.KeyMsg
	// Now is the time of the frame
	Now time.Time
}

// Pane is one screen of the app with its own state.
// All methods are called from the frame loop and must never block.
type Pane interface {
	// Title is shown in the header
	Title() string
	// Update applies pending results and the input of one frame and
	// returns the navigation signal of the pane (nil for none)
	Update(in Input) Event
	// View renders the pane into the given size
	View(width, height int) string
	// Reload refreshes the pane from the backend (async)
	Reload()
	// Close releases the pane, tasks still running for it are cancelled
	Close()
}

// Factory builds the panes the router pushes
type Factory interface {
	// Times builds the detail pane of a collection, h is nil for the default handle
	Times(h *handle.Shared, collection store.Collection) Pane
	Log() Pane
	Config() Pane
}
