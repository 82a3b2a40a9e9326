package nav

import (
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("nav")

// Router keeps the stack of panes. The bottom pane is the start pane and is never popped.
type Router struct {
	stack   []Pane
	factory Factory
}

// NewRouter creates a router with root as the only pane
func NewRouter(root Pane, factory Factory) *Router {
	return &Router{
		stack:   []Pane{root},
		factory: factory,
	}
}

// Frame updates the active pane once and applies the returned event
func (r *Router) Frame(in Input) Event {
	ev := r.Top().Update(in)
	r.Apply(ev)
	return ev
}

// Apply performs the stack transition of ev
func (r *Router) Apply(ev Event) {
	if ev == nil {
		return
	}
	Logger.Debugf("apply %s (depth %d)", ev, len(r.stack))

	switch e := ev.(type) {
	case Select:
		r.push(r.factory.Times(e.Handle, e.Collection))
	case OpenCollection:
		r.push(r.factory.Times(nil, e.Collection))
	case ShowLog:
		r.push(r.factory.Log())
	case ShowConfig:
		r.push(r.factory.Config())
	case Pop:
		if len(r.stack) == 1 {
			Logger.Warningf("ignoring pop of the start pane")
			return
		}
		top := r.stack[len(r.stack)-1]
		r.stack[len(r.stack)-1] = nil
		r.stack = r.stack[:len(r.stack)-1]
		top.Close()
		r.Top().Reload()
	default:
		Logger.Warningf("unknown event %s", ev)
	}
}

func (r *Router) push(p Pane) {
	r.stack = append(r.stack, p)
}

// Top returns the active pane
func (r *Router) Top() Pane {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of panes on the stack
func (r *Router) Depth() int {
	return len(r.stack)
}

// Breadcrumb returns the titles of all panes from the bottom to the top
func (r *Router) Breadcrumb() string {
	titles := make([]string, 0, len(r.stack))
	for _, p := range r.stack {
		titles = append(titles, p.Title())
	}
	return strings.Join(titles, " > ")
}

// Close closes every pane, the top first
func (r *Router) Close() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		r.stack[i].Close()
	}
	r.stack = r.stack[:1]
}
