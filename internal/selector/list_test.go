package selector

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/interaction"
)

var twoItems = []Item{
	{ID: "b1", Name: "Alpha"},
	{ID: "b2", Name: "Beta", Description: "second bucket"},
}

type spy struct {
	changes  []State
	selected []Item
}

func newList(t *testing.T, items []Item, err error, bus *interaction.Bus) (*List, *spy) {
	t.Helper()
	s := &spy{}
	l := New(ListerFunc(func(context.Context) ([]Item, error) { return items, err }), Options{
		Bus:      bus,
		OnSelect: func(it Item) { s.selected = append(s.selected, it) },
		OnChange: func(st State) { s.changes = append(s.changes, st) },
	})
	return l, s
}

func mountLoaded(t *testing.T, l *List) {
	t.Helper()
	cmd := l.Mount()
	require.NotNil(t, cmd)
	assert.Nil(t, l.Update(cmd()))
}

func TestMount_AutoSelectsFirst(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)

	cmd := l.Mount()
	require.NotNil(t, cmd)
	assert.True(t, l.State().Loading)
	l.Update(cmd())

	st := l.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "b1", st.SelectedID)
	assert.Equal(t, twoItems, st.Items)
	assert.Empty(t, st.Err)
	require.Len(t, s.selected, 1)
	assert.Equal(t, "b1", s.selected[0].ID)

	it, ok := l.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Alpha", it.Name)
}

func TestMount_Once(t *testing.T) {
	l, _ := newList(t, twoItems, nil, nil)
	mountLoaded(t, l)
	assert.Nil(t, l.Mount())
}

func TestMount_EmptyItems(t *testing.T) {
	l, s := newList(t, nil, nil, nil)
	mountLoaded(t, l)

	st := l.State()
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.SelectedID)
	assert.Empty(t, s.selected)

	for i := 0; i < 5; i++ {
		assert.False(t, l.Toggle())
		assert.False(t, l.State().Open)
	}
}

func TestMount_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "with detail", err: influx.NewServiceError(503, "Failed to list buckets: unauthorized"), want: "Failed to list buckets: unauthorized"},
		{name: "without detail", err: errors.New("boom"), want: DefaultFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s := newList(t, twoItems, tt.err, nil)
			mountLoaded(t, l)

			st := l.State()
			assert.Equal(t, tt.want, st.Err)
			assert.Empty(t, st.Items)
			assert.Empty(t, st.SelectedID)
			assert.False(t, st.Loading)
			assert.Empty(t, s.selected)
			assert.False(t, l.Toggle())
		})
	}
}

func TestCustomFailureMessage(t *testing.T) {
	l := New(ListerFunc(func(context.Context) ([]Item, error) { return nil, errors.New("x") }),
		Options{FailureMessage: "Failed to load buckets"})
	mountLoaded(t, l)

	assert.Equal(t, "Failed to load buckets", l.State().Err)
}

func TestToggle_RefusedWhileLoading(t *testing.T) {
	l, _ := newList(t, twoItems, nil, nil)
	cmd := l.Mount()

	assert.False(t, l.Toggle())
	assert.False(t, l.State().Open)

	l.Update(cmd())
	assert.True(t, l.Toggle())
	assert.True(t, l.State().Open)
	assert.True(t, l.Toggle())
	assert.False(t, l.State().Open)
}

func TestSelect_SingleMutation(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)
	mountLoaded(t, l)
	require.True(t, l.Toggle())
	s.changes = nil

	require.True(t, l.Select("b2"))

	require.Len(t, s.changes, 1)
	assert.Equal(t, "b2", s.changes[0].SelectedID)
	assert.False(t, s.changes[0].Open)
	assert.Equal(t, "b2", s.selected[len(s.selected)-1].ID)
}

func TestSelect_Refused(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)

	cmd := l.Mount()
	assert.False(t, l.Select("b1"), "refused while loading")

	l.Update(cmd())
	s.changes = nil
	assert.False(t, l.Select("missing"))
	assert.False(t, l.Select(""))
	assert.Empty(t, s.changes)
	assert.Equal(t, "b1", l.State().SelectedID)
}

func TestState_IsACopy(t *testing.T) {
	l, _ := newList(t, twoItems, nil, nil)
	mountLoaded(t, l)

	st := l.State()
	st.Items[0].Name = "mutated"

	assert.Equal(t, "Alpha", l.State().Items[0].Name)
}

func TestOutsideClickCloses(t *testing.T) {
	bus := interaction.NewBus()
	l, _ := newList(t, twoItems, nil, bus)
	mountLoaded(t, l)
	l.SetBounds(interaction.Region{X: 0, Y: 5, Width: 30, Height: 4})

	assert.Zero(t, bus.Len(), "no listener while closed")
	require.True(t, l.Toggle())
	assert.Equal(t, 1, bus.Len())

	bus.Dispatch(interaction.Event{X: 3, Y: 6})
	assert.True(t, l.State().Open, "click inside keeps it open")

	bus.Dispatch(interaction.Event{X: 3, Y: 20})
	assert.False(t, l.State().Open)
	assert.Zero(t, bus.Len(), "listener released on close")
}

func TestListenerReleasedOnSelectAndUnmount(t *testing.T) {
	bus := interaction.NewBus()
	l, _ := newList(t, twoItems, nil, bus)
	mountLoaded(t, l)

	require.True(t, l.Toggle())
	require.True(t, l.Select("b2"))
	assert.Zero(t, bus.Len())

	require.True(t, l.Toggle())
	l.Unmount()
	assert.Zero(t, bus.Len())
	assert.False(t, l.Toggle())
}

func TestUnmount_DropsPendingLoad(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)
	cmd := l.Mount()
	before := len(s.changes)

	l.Unmount()
	l.Update(cmd())

	assert.Len(t, s.changes, before)
	assert.Empty(t, s.selected)
	assert.True(t, l.State().Loading)
}

func TestRefresh(t *testing.T) {
	items := twoItems
	l := New(ListerFunc(func(context.Context) ([]Item, error) { return items, nil }), Options{})
	assert.Nil(t, l.Refresh(), "refresh before mount is a no-op")
	mountLoaded(t, l)
	require.True(t, l.Select("b2"))

	items = []Item{{ID: "b2", Name: "Beta"}, {ID: "b3", Name: "Gamma"}}
	l.Update(l.Refresh()())
	assert.Equal(t, "b2", l.State().SelectedID, "selection kept when still present")

	items = []Item{{ID: "b3", Name: "Gamma"}}
	l.Update(l.Refresh()())
	assert.Equal(t, "b3", l.State().SelectedID)
}

func TestRefresh_SupersedesEarlierLoad(t *testing.T) {
	calls := 0
	l := New(ListerFunc(func(context.Context) ([]Item, error) {
		calls++
		if calls == 1 {
			return []Item{{ID: "old"}}, nil
		}
		return []Item{{ID: "new"}}, nil
	}), Options{})

	first := l.Mount()
	second := l.Refresh()

	firstMsg := first()
	l.Update(second())
	l.Update(firstMsg)

	assert.Equal(t, "new", l.State().SelectedID)
	assert.Equal(t, []Item{{ID: "new"}}, l.State().Items)
}

func TestUpdate_IgnoresForeignMessages(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)
	assert.Nil(t, l.Update(tea.WindowSizeMsg{Width: 80, Height: 24}))
	assert.Empty(t, s.changes)
}

func TestInvariant_NeverOpenWhileLoadingOrEmpty(t *testing.T) {
	l, s := newList(t, twoItems, nil, nil)
	mountLoaded(t, l)
	require.True(t, l.Toggle())

	cmd := l.Refresh()
	assert.False(t, l.State().Open, "refresh closes the disclosure")
	l.Update(cmd())

	for _, st := range s.changes {
		if st.Open {
			assert.False(t, st.Loading)
			assert.NotEmpty(t, st.Items)
		}
	}
}
