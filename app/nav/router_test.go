package nav

import (
	"testing"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/stretchr/testify/require"
)

type fakePane struct {
	title   string
	next    Event
	updates int
	reloads int
	closed  int
}

func (p *fakePane) Title() string { return p.title }

func (p *fakePane) Update(Input) Event {
	p.updates++
	ev := p.next
	p.next = nil
	return ev
}

func (p *fakePane) View(int, int) string { return p.title }
func (p *fakePane) Reload()              { p.reloads++ }
func (p *fakePane) Close()               { p.closed++ }

type fakeFactory struct {
	handles []*handle.Shared
	built   []*fakePane
}

func (f *fakeFactory) pane(title string) Pane {
	p := &fakePane{title: title}
	f.built = append(f.built, p)
	return p
}

func (f *fakeFactory) Times(h *handle.Shared, c store.Collection) Pane {
	f.handles = append(f.handles, h)
	return f.pane(c.Title)
}

func (f *fakeFactory) Log() Pane    { return f.pane("log") }
func (f *fakeFactory) Config() Pane { return f.pane("config") }

func TestNothingKeepsStack(t *testing.T) {
	root := &fakePane{title: "select"}
	r := NewRouter(root, &fakeFactory{})

	for i := 0; i < 3; i++ {
		require.Nil(t, r.Frame(Input{}))
	}
	require.Equal(t, 1, r.Depth())
	require.Equal(t, 3, root.updates)
}

func TestSelectPushesDetail(t *testing.T) {
	root := &fakePane{title: "select"}
	f := &fakeFactory{}
	r := NewRouter(root, f)
	h := handle.New(nil)

	root.next = Select{Handle: h, Collection: store.Collection{ID: 1, Title: "20240101"}}
	ev := r.Frame(Input{})
	require.IsType(t, Select{}, ev)
	require.Equal(t, 2, r.Depth())
	require.Equal(t, "20240101", r.Top().Title())
	require.Same(t, h, f.handles[0])

	r.Apply(OpenCollection{Collection: store.Collection{ID: 2, Title: "20240102"}})
	require.Equal(t, 3, r.Depth())
	require.Nil(t, f.handles[1], "open collection uses the default handle")
	require.Equal(t, "select > 20240101 > 20240102", r.Breadcrumb())

	// only the top pane is updated
	r.Frame(Input{})
	require.Equal(t, 1, root.updates)
	require.Equal(t, 1, f.built[1].updates)
}

func TestUtilityPanes(t *testing.T) {
	r := NewRouter(&fakePane{title: "select"}, &fakeFactory{})

	r.Apply(ShowLog{})
	require.Equal(t, "log", r.Top().Title())
	r.Apply(ShowConfig{})
	require.Equal(t, "config", r.Top().Title())
	require.Equal(t, 3, r.Depth())
}

func TestPop(t *testing.T) {
	root := &fakePane{title: "select"}
	f := &fakeFactory{}
	r := NewRouter(root, f)

	r.Apply(ShowLog{})
	logPane := f.built[0]

	r.Apply(Pop{})
	require.Equal(t, 1, r.Depth())
	require.Equal(t, 1, logPane.closed)
	require.Equal(t, 1, root.reloads, "exposed pane is reloaded")
	require.Same(t, root, r.Top())
}

func TestPopOfStartPaneIsIgnored(t *testing.T) {
	root := &fakePane{title: "select"}
	r := NewRouter(root, &fakeFactory{})

	root.next = Pop{}
	r.Frame(Input{})
	r.Apply(Pop{})

	require.Equal(t, 1, r.Depth())
	require.Same(t, root, r.Top())
	require.Zero(t, root.closed)
	require.Zero(t, root.reloads)
}

func TestClose(t *testing.T) {
	root := &fakePane{title: "select"}
	f := &fakeFactory{}
	r := NewRouter(root, f)
	r.Apply(ShowLog{})
	r.Apply(ShowConfig{})

	r.Close()
	require.Equal(t, 1, root.closed)
	for _, p := range f.built {
		require.Equal(t, 1, p.closed)
	}
}
