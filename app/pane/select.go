package pane

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/lib/bridge"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TodayLayout is the title format of the collection of a day
const TodayLayout = "20060102"

// SelectPane lists all collections with their latest entry and creates new ones.
// It is the start pane of the app.
type SelectPane struct {
	base

	times  map[uint64]*TimesData
	loaded bool
	cursor int

	input textinput.Model
	keys  keyMap
	help  help.Model
}

// NewSelectPane creates the pane and starts loading the collections
func NewSelectPane(env Env) *SelectPane {
	input := textinput.New()
	input.Prompt = "new › "
	input.Placeholder = "title of a new times"
	input.CharLimit = 256
	input.Focus()

	p := &SelectPane{
		base:  newBase(env, nil, "select"),
		times: make(map[uint64]*TimesData),
		input: input,
		keys:  selectKeys(),
		help:  help.New(),
	}
	p.Reload()
	return p
}

// --------------------------------------------------------------------------
// Interface Methods (docu see nav.Pane)
// --------------------------------------------------------------------------

func (p *SelectPane) Title() string {
	return "times"
}

func (p *SelectPane) Update(in nav.Input) nav.Event {
	if ev := p.drain(p.apply); ev != nil {
		return ev
	}
	for _, k := range in.Keys {
		if ev := p.handleKey(k, in.Now); ev != nil {
			return ev
		}
	}
	return nil
}

// Reload lists all collections, then fetches the latest entry of each.
// Every backend call takes the lock on its own, no message is sent while the lock is held.
func (p *SelectPane) Reload() {
	h := p.handle
	p.spawn("reload", func(ctx context.Context, tx bridge.Sender[Message]) {
		collections, err := handle.WithLock(ctx, h, "list_collections", func(ctx context.Context, s store.IStore) ([]store.Collection, error) {
			return s.ListCollections(ctx)
		})
		if err != nil {
			send(ctx, tx, failed("list collections", err))
			return
		}

		times := make(map[uint64]*TimesData, len(collections))
		for _, c := range collections {
			times[c.ID] = &TimesData{Times: c}
		}
		if !send(ctx, tx, Refreshed{Times: times}) {
			return
		}

		for _, c := range collections {
			var latest store.Entry
			var ok bool
			err := h.Do(ctx, "latest_entry", func(ctx context.Context, s store.IStore) (err error) {
				latest, ok, err = s.LatestEntry(ctx, c.ID)
				return err
			})
			if err != nil {
				send(ctx, tx, failed(fmt.Sprintf("latest entry of %q", c.Title), err))
				return
			}
			if !ok {
				continue
			}
			if !send(ctx, tx, LatestUpdated{ID: c.ID, Entry: latest}) {
				return
			}
		}
	})
}

func (p *SelectPane) Close() {
	p.close()
}

// --------------------------------------------------------------------------
// Actions
// --------------------------------------------------------------------------

// Create creates a collection in the background, a Created message selects it
func (p *SelectPane) Create(title string) {
	h := p.handle
	p.spawn("create", func(ctx context.Context, tx bridge.Sender[Message]) {
		c, err := handle.WithLock(ctx, h, "create_collection", func(ctx context.Context, s store.IStore) (store.Collection, error) {
			return s.CreateCollection(ctx, title)
		})
		if err != nil {
			send(ctx, tx, failed(fmt.Sprintf("create %q", title), err))
			return
		}
		send(ctx, tx, Created{Collection: c})
	})
}

// CreateToday selects the collection of the (local) day of now.
// A cached collection is selected at once, otherwise it is created.
func (p *SelectPane) CreateToday(now time.Time) nav.Event {
	title := now.Local().Format(TodayLayout)
	for _, td := range p.times {
		if td.Times.Title == title {
			return nav.Select{Handle: p.handle, Collection: td.Times}
		}
	}
	p.Create(title)
	return nil
}

// Times returns a copy of the cached collections
func (p *SelectPane) Times() map[uint64]TimesData {
	out := make(map[uint64]TimesData, len(p.times))
	for id, td := range p.times {
		out[id] = *td
	}
	return out
}

// Loaded reports whether a refresh has completed
func (p *SelectPane) Loaded() bool {
	return p.loaded
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (p *SelectPane) apply(msg Message) nav.Event {
	switch m := msg.(type) {
	case Created:
		p.input.Reset()
		p.lastErr = ""
		if td, ok := p.times[m.Collection.ID]; ok {
			td.Times = m.Collection
		} else {
			p.times[m.Collection.ID] = &TimesData{Times: m.Collection}
		}
		return nav.Select{Handle: p.handle, Collection: m.Collection}
	case Refreshed:
		p.times = mergeTimes(p.times, m.Times)
		p.loaded = true
		p.lastErr = ""
		p.cursor = min(p.cursor, max(0, len(p.times)-1))
	case LatestUpdated:
		if td, ok := p.times[m.ID]; ok {
			entry := m.Entry
			td.Latest = &entry
		}
	case Failed:
		p.fail(m)
	default:
		Logger.Warningf("%s: unexpected message %T", p.id, msg)
	}
	return nil
}

func (p *SelectPane) handleKey(k tea.KeyMsg, now time.Time) nav.Event {
	switch {
	case key.Matches(k, p.keys.Today):
		return p.CreateToday(now)
	case key.Matches(k, p.keys.Refresh):
		p.Reload()
	case key.Matches(k, p.keys.Log):
		return nav.ShowLog{}
	case key.Matches(k, p.keys.Config):
		return nav.ShowConfig{}
	case key.Matches(k, p.keys.Up):
		p.cursor = max(0, p.cursor-1)
	case key.Matches(k, p.keys.Down):
		p.cursor = min(max(0, len(p.times)-1), p.cursor+1)
	case key.Matches(k, p.keys.Enter):
		if title := strings.TrimSpace(p.input.Value()); title != "" {
			p.Create(title)
			return nil
		}
		if sorted := p.sorted(); len(sorted) > 0 {
			return nav.Select{Handle: p.handle, Collection: sorted[p.cursor].Times}
		}
	default:
		p.input, _ = p.input.Update(k)
	}
	return nil
}

// sorted returns the cached collections, newest first
func (p *SelectPane) sorted() []*TimesData {
	out := make([]*TimesData, 0, len(p.times))
	for _, td := range p.times {
		out = append(out, td)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Times.CreatedAt.Equal(out[j].Times.CreatedAt) {
			return out[i].Times.CreatedAt.After(out[j].Times.CreatedAt)
		}
		return out[i].Times.ID > out[j].Times.ID
	})
	return out
}

func (p *SelectPane) View(width, height int) string {
	var sb strings.Builder
	p.input.Width = max(10, width-10)
	sb.WriteString(p.input.View())
	sb.WriteString("\n\n")

	rows := max(1, height-5)
	sorted := p.sorted()
	switch {
	case !p.loaded && len(sorted) == 0:
		sb.WriteString(mutedStyle.Render("loading…"))
		sb.WriteString("\n")
	case len(sorted) == 0:
		sb.WriteString(mutedStyle.Render("no times yet, type a title or press ctrl+t"))
		sb.WriteString("\n")
	}

	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	for i := start; i < len(sorted) && i < start+rows; i++ {
		td := sorted[i]
		marker, title := "  ", titleStyle.Render(td.Times.Title)
		if i == p.cursor {
			marker, title = cursorStyle.Render("› "), selectedStyle.Render(td.Times.Title)
		}
		line := marker + mutedStyle.Render(stamp(td.Times.CreatedAt)) + "  " + title
		if td.Latest != nil {
			line += mutedStyle.Render("  │ ") + td.Latest.Body + mutedStyle.Render("  "+stamp(td.Latest.CreatedAt))
		}
		sb.WriteString(truncate(line, width))
		sb.WriteString("\n")
	}

	if p.lastErr != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(truncate(p.lastErr, width)))
		sb.WriteString("\n")
	}

	p.help.Width = width
	sb.WriteString("\n")
	sb.WriteString(p.help.View(p.keys))
	return sb.String()
}

// mergeTimes replaces cached with snapshot but keeps cached collections newer
// than anything in snapshot. A reload that listed before a create completed
// must not drop the created collection.
func mergeTimes(cached, snapshot map[uint64]*TimesData) map[uint64]*TimesData {
	var newest uint64
	for id := range snapshot {
		newest = max(newest, id)
	}
	merged := make(map[uint64]*TimesData, len(snapshot))
	for id, td := range snapshot {
		merged[id] = td
	}
	for id, td := range cached {
		if _, ok := merged[id]; !ok && id > newest {
			merged[id] = td
		}
	}
	return merged
}
