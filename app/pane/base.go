package pane

import (
	"context"
	"time"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/lib/bridge"
	"github.com/ValentinKolb/timesman/lib/config"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/lib/tasks"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("pane")

// Env holds what every pane needs
type Env struct {
	// Handle is the default handle of the process
	Handle *handle.Shared
	// Runner runs the background tasks of all panes
	Runner *tasks.Runner
	// Capacity of the result channel of a pane, values below 1 use bridge.DefaultCapacity
	Capacity int
	// Config is shown by the config pane, may be nil
	Config *config.Config
}

// Factory builds panes for the router
type Factory struct {
	Env Env
}

func (f Factory) Times(h *handle.Shared, collection store.Collection) nav.Pane {
	return NewTimesPane(f.Env, h, collection)
}

func (f Factory) Log() nav.Pane {
	return NewLogPane()
}

func (f Factory) Config() nav.Pane {
	return NewConfigPane(f.Env)
}

// base is the channel, the task context and the error line shared by the data panes
type base struct {
	env    Env
	handle *handle.Shared
	id     string

	ctx    context.Context
	cancel context.CancelFunc

	tx bridge.Sender[Message]
	rx *bridge.Receiver[Message]

	lastErr string
}

func newBase(env Env, h *handle.Shared, name string) base {
	if h == nil {
		h = env.Handle
	}
	capacity := env.Capacity
	if capacity < 1 {
		capacity = bridge.DefaultCapacity
	}
	tx, rx := bridge.New[Message](capacity)
	ctx, cancel := context.WithCancel(env.Runner.Context())
	return base{
		env:    env,
		handle: h,
		id:     name + "-" + uuid.NewString()[:8],
		ctx:    ctx,
		cancel: cancel,
		tx:     tx,
		rx:     rx,
	}
}

// spawn runs fn as a background task of the pane.
// The task ends at the latest when the pane is closed.
func (b *base) spawn(op string, fn func(ctx context.Context, tx bridge.Sender[Message])) {
	tx := b.tx
	started := b.env.Runner.Spawn(b.ctx, b.id+"/"+op, func(ctx context.Context) {
		fn(ctx, tx)
	})
	if !started {
		b.lastErr = op + ": background tasks are shut down"
	}
}

// drain applies every pending message with apply and returns the first event
func (b *base) drain(apply func(Message) nav.Event) nav.Event {
	var ev nav.Event
	b.rx.Drain(func(msg Message) {
		if e := apply(msg); e != nil && ev == nil {
			ev = e
		}
	})
	return ev
}

// fail records a Failed message
func (b *base) fail(m Failed) {
	b.lastErr = m.Description
	Logger.Errorf("%s: %s", b.id, m.Description)
}

// Err returns the last error of the pane, empty if the last call succeeded
func (b *base) Err() string {
	return b.lastErr
}

func (b *base) close() {
	b.cancel()
	b.rx.Drop()
}

// send delivers msg to the pane. A pane that is gone is logged, the message is dropped.
func send(ctx context.Context, tx bridge.Sender[Message], msg Message) bool {
	if err := tx.Send(ctx, msg); err != nil {
		Logger.Warningf("dropping %T: %v", msg, err)
		return false
	}
	return true
}

// failed wraps a backend error into a Failed message
func failed(op string, err error) Failed {
	return Failed{Description: op + ": " + err.Error()}
}

// stamp formats a timestamp for the panes
func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
