package pane

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/lib/bridge"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TimesPane shows the entries of one collection and appends new ones
type TimesPane struct {
	base

	times   store.Collection
	entries []store.Entry
	loaded  bool
	offset  int // lines scrolled up from the bottom

	input textinput.Model
	keys  keyMap
	help  help.Model
}

// NewTimesPane creates the detail pane of collection and starts loading its entries.
// h is the handle the collection was selected with, nil uses env.Handle.
func NewTimesPane(env Env, h *handle.Shared, collection store.Collection) *TimesPane {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "what are you doing?"
	input.CharLimit = 4096
	input.Focus()

	p := &TimesPane{
		base:  newBase(env, h, "times"),
		times: collection,
		input: input,
		keys:  timesKeys(),
		help:  help.New(),
	}
	p.Reload()
	return p
}

// --------------------------------------------------------------------------
// Interface Methods (docu see nav.Pane)
// --------------------------------------------------------------------------

func (p *TimesPane) Title() string {
	return p.times.Title
}

func (p *TimesPane) Update(in nav.Input) nav.Event {
	if ev := p.drain(p.apply); ev != nil {
		return ev
	}
	for _, k := range in.Keys {
		if ev := p.handleKey(k); ev != nil {
			return ev
		}
	}
	return nil
}

func (p *TimesPane) Reload() {
	h, id := p.handle, p.times.ID
	p.spawn("reload", func(ctx context.Context, tx bridge.Sender[Message]) {
		entries, err := handle.WithLock(ctx, h, "list_entries", func(ctx context.Context, s store.IStore) ([]store.Entry, error) {
			return s.ListEntries(ctx, id)
		})
		if err != nil {
			send(ctx, tx, failed("list entries", err))
			return
		}
		send(ctx, tx, EntriesLoaded{Entries: entries})
	})
}

func (p *TimesPane) Close() {
	p.close()
}

// --------------------------------------------------------------------------
// Actions
// --------------------------------------------------------------------------

// Append adds an entry to the collection in the background
func (p *TimesPane) Append(body string) {
	h, id := p.handle, p.times.ID
	p.spawn("append", func(ctx context.Context, tx bridge.Sender[Message]) {
		entry, err := handle.WithLock(ctx, h, "append_entry", func(ctx context.Context, s store.IStore) (store.Entry, error) {
			return s.AppendEntry(ctx, id, body)
		})
		if err != nil {
			send(ctx, tx, failed("append", err))
			return
		}
		send(ctx, tx, EntryAppended{Entry: entry})
	})
}

// Collection returns the collection of the pane
func (p *TimesPane) Collection() store.Collection {
	return p.times
}

// Entries returns a copy of the cached entries, oldest first
func (p *TimesPane) Entries() []store.Entry {
	out := make([]store.Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (p *TimesPane) apply(msg Message) nav.Event {
	switch m := msg.(type) {
	case EntriesLoaded:
		p.entries = mergeEntries(p.entries, m.Entries)
		p.loaded = true
		p.lastErr = ""
	case EntryAppended:
		p.input.Reset()
		p.lastErr = ""
		p.offset = 0
		for _, e := range p.entries {
			if e.ID == m.Entry.ID {
				return nil
			}
		}
		p.entries = append(p.entries, m.Entry)
	case Failed:
		p.fail(m)
	default:
		Logger.Warningf("%s: unexpected message %T", p.id, msg)
	}
	return nil
}

func (p *TimesPane) handleKey(k tea.KeyMsg) nav.Event {
	switch {
	case key.Matches(k, p.keys.Back):
		return nav.Pop{}
	case key.Matches(k, p.keys.Refresh):
		p.Reload()
	case key.Matches(k, p.keys.Log):
		return nav.ShowLog{}
	case key.Matches(k, p.keys.Config):
		return nav.ShowConfig{}
	case key.Matches(k, p.keys.Up):
		p.offset = min(p.offset+1, max(0, len(p.entries)-1))
	case key.Matches(k, p.keys.Down):
		p.offset = max(0, p.offset-1)
	case key.Matches(k, p.keys.Enter):
		if body := strings.TrimSpace(p.input.Value()); body != "" {
			p.Append(body)
		}
	default:
		p.input, _ = p.input.Update(k)
	}
	return nil
}

func (p *TimesPane) View(width, height int) string {
	var sb strings.Builder

	rows := max(1, height-5)
	switch {
	case !p.loaded && len(p.entries) == 0:
		sb.WriteString(mutedStyle.Render("loading…"))
		sb.WriteString("\n")
	case len(p.entries) == 0:
		sb.WriteString(mutedStyle.Render("no entries yet"))
		sb.WriteString("\n")
	}

	end := len(p.entries) - p.offset
	start := max(0, end-rows)
	for _, e := range p.entries[start:max(start, end)] {
		line := fmt.Sprintf("%s  %s", mutedStyle.Render(stamp(e.CreatedAt)), e.Body)
		sb.WriteString(truncate(line, width))
		sb.WriteString("\n")
	}

	if p.lastErr != "" {
		sb.WriteString(errorStyle.Render(truncate(p.lastErr, width)))
		sb.WriteString("\n")
	}

	p.input.Width = max(10, width-4)
	sb.WriteString("\n")
	sb.WriteString(p.input.View())
	sb.WriteString("\n\n")

	p.help.Width = width
	sb.WriteString(p.help.View(p.keys))
	return sb.String()
}

// mergeEntries replaces cached with snapshot, then re-appends cached entries
// newer than the last entry of snapshot.
func mergeEntries(cached, snapshot []store.Entry) []store.Entry {
	var newest uint64
	for _, e := range snapshot {
		newest = max(newest, e.ID)
	}
	merged := append([]store.Entry(nil), snapshot...)
	for _, e := range cached {
		if e.ID > newest {
			merged = append(merged, e)
		}
	}
	return merged
}
