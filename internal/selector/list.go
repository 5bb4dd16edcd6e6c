// Package selector implements an asynchronously loaded single-choice dropdown.
//
// A List loads its items once on Mount, selects the first item automatically
// and then lets the user open the disclosure and pick another. While open it
// listens on an interaction.Bus so a click outside its region closes it.
package selector

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/interaction"
	"github.com/muurk/fluxvision/internal/lifecycle"
	"github.com/muurk/fluxvision/internal/logging"
)

// DefaultFailureMessage is shown when a load fails without a detail.
const DefaultFailureMessage = "Failed to load items"

// Item is one selectable entry. An empty Description means none.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Lister fetches the items to choose from.
type Lister interface {
	List(ctx context.Context) ([]Item, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context) ([]Item, error)

// List calls f(ctx).
func (f ListerFunc) List(ctx context.Context) ([]Item, error) {
	return f(ctx)
}

// State is a snapshot of the list. Open is never true while Loading or while
// Items is empty.
type State struct {
	Items      []Item
	SelectedID string
	Open       bool
	Loading    bool
	Err        string
}

// Options configure a List. Every field is optional.
type Options struct {
	// Bus receives pointer events; without one, outside clicks are not detected.
	Bus *interaction.Bus

	OnSelect func(Item)
	OnChange func(State)

	FailureMessage string
}

// LoadedMsg carries the result of a load started by Mount or Refresh.
type LoadedMsg struct {
	token lifecycle.Token
	items []Item
	err   error
}

// List is the dropdown controller. Use it from a single goroutine.
type List struct {
	lister Lister
	opts   Options

	scope   *lifecycle.Scope
	state   State
	mounted bool

	bounds  interaction.Region
	release func()

	log *zap.Logger
}

// New creates an unmounted list.
func New(lister Lister, opts Options) *List {
	if opts.FailureMessage == "" {
		opts.FailureMessage = DefaultFailureMessage
	}
	return &List{
		lister: lister,
		opts:   opts,
		scope:  lifecycle.NewScope(context.Background()),
		log:    logging.Named("selector"),
	}
}

// State returns a copy of the list state.
func (l *List) State() State {
	s := l.state
	s.Items = slices.Clone(l.state.Items)
	return s
}

// Selected returns the selected item, if any.
func (l *List) Selected() (Item, bool) {
	return l.find(l.state.SelectedID)
}

// Mount starts the initial load. Later calls return nil.
func (l *List) Mount() tea.Cmd {
	if l.mounted || l.scope.Closed() {
		return nil
	}
	l.mounted = true
	return l.load()
}

// Refresh reloads the items, superseding any load still in flight. The
// current selection is kept while it still exists; otherwise the first item
// is selected.
func (l *List) Refresh() tea.Cmd {
	if !l.mounted || l.scope.Closed() {
		return nil
	}
	return l.load()
}

func (l *List) load() tea.Cmd {
	tok := l.scope.Begin(lifecycle.OpItems)
	l.releaseListener()
	l.mutate(func(s *State) {
		s.Loading = true
		s.Open = false
	})

	lister := l.lister
	return func() tea.Msg {
		items, err := lister.List(tok.Ctx)
		return LoadedMsg{token: tok, items: items, err: err}
	}
}

// Update applies load results. Other messages are ignored.
func (l *List) Update(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(LoadedMsg)
	if !ok {
		return nil
	}
	if !l.scope.Valid(loaded.token) {
		l.log.Debug("Dropping stale item load", zap.Uint64("gen", loaded.token.Gen))
		return nil
	}
	l.scope.Finish(loaded.token)

	if loaded.err != nil {
		l.log.Warn("Loading items failed", zap.Error(loaded.err))
		l.mutate(func(s *State) {
			s.Loading = false
			s.Items = []Item{}
			s.Err = influx.DetailOr(loaded.err, l.opts.FailureMessage)
		})
		return nil
	}

	items := slices.Clone(loaded.items)
	if items == nil {
		items = []Item{}
	}

	var auto *Item
	l.mutate(func(s *State) {
		s.Loading = false
		s.Err = ""
		s.Items = items
		kept := slices.ContainsFunc(items, func(it Item) bool { return it.ID == s.SelectedID })
		if !kept && len(items) > 0 {
			s.SelectedID = items[0].ID
			auto = &items[0]
		}
	})
	l.log.Debug("Loaded items", zap.Int("count", len(items)))

	if auto != nil && l.opts.OnSelect != nil {
		l.opts.OnSelect(*auto)
	}
	return nil
}

// Toggle opens or closes the disclosure. It reports whether anything
// changed: opening is refused while loading, with no items, or after Unmount.
func (l *List) Toggle() bool {
	if l.scope.Closed() {
		return false
	}
	if l.state.Open {
		l.Close()
		return true
	}
	if l.state.Loading || len(l.state.Items) == 0 {
		return false
	}

	l.acquireListener()
	l.mutate(func(s *State) { s.Open = true })
	return true
}

// Close closes the disclosure and stops listening for outside clicks.
func (l *List) Close() {
	l.releaseListener()
	if !l.state.Open || l.scope.Closed() {
		return
	}
	l.mutate(func(s *State) { s.Open = false })
}

// Select makes id the selection and closes the disclosure in a single
// mutation. Unknown ids are refused, as is any selection while loading.
func (l *List) Select(id string) bool {
	if l.scope.Closed() || l.state.Loading {
		return false
	}
	item, ok := l.find(id)
	if !ok {
		return false
	}

	l.releaseListener()
	l.mutate(func(s *State) {
		s.SelectedID = id
		s.Open = false
	})
	if l.opts.OnSelect != nil {
		l.opts.OnSelect(item)
	}
	return true
}

// SetBounds records the screen region the control occupies. Pointer events
// outside it close an open disclosure.
func (l *List) SetBounds(r interaction.Region) {
	l.bounds = r
}

// Bounds returns the region last passed to SetBounds.
func (l *List) Bounds() interaction.Region {
	return l.bounds
}

// Unmount invalidates any pending load and stops listening. State is left
// untouched.
func (l *List) Unmount() {
	l.scope.Close()
	l.releaseListener()
}

func (l *List) find(id string) (Item, bool) {
	if id == "" {
		return Item{}, false
	}
	i := slices.IndexFunc(l.state.Items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return Item{}, false
	}
	return l.state.Items[i], true
}

func (l *List) acquireListener() {
	if l.opts.Bus == nil || l.release != nil {
		return
	}
	l.release = l.opts.Bus.Listen(func(ev interaction.Event) {
		if l.bounds.Contains(ev.X, ev.Y) {
			return
		}
		l.Close()
	})
}

func (l *List) releaseListener() {
	if l.release == nil {
		return
	}
	l.release()
	l.release = nil
}

func (l *List) mutate(fn func(*State)) {
	fn(&l.state)
	if l.opts.OnChange != nil {
		l.opts.OnChange(l.State())
	}
}
