package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/interaction"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/selector"
)

// BucketSource lists the buckets visible to the saved credentials
type BucketSource interface {
	Buckets(ctx context.Context) ([]influx.Bucket, error)
}

// BucketLister adapts a BucketSource to the dropdown's item lister
func BucketLister(src BucketSource) selector.Lister {
	return selector.ListerFunc(func(ctx context.Context) ([]selector.Item, error) {
		buckets, err := src.Buckets(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]selector.Item, len(buckets))
		for i, b := range buckets {
			items[i] = selector.Item{ID: b.ID, Name: b.Name, Description: b.Description}
		}
		return items, nil
	})
}

const (
	// triggerRow is the content line holding the dropdown control
	triggerRow    = 4
	dropdownWidth = 40
)

// workspaceKeyMap defines key bindings for the bucket workspace
type workspaceKeyMap struct {
	Toggle  key.Binding
	Up      key.Binding
	Down    key.Binding
	Close   key.Binding
	Refresh key.Binding
	Edit    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k workspaceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Up, k.Down, k.Close, k.Refresh, k.Edit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k workspaceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Up, k.Down, k.Close}, {k.Refresh, k.Edit, k.Quit}}
}

// WorkspaceModel is the bucket picker screen
type WorkspaceModel struct {
	List *selector.List
	Bus  *interaction.Bus

	// Highlight is the option under the cursor while the dropdown is open
	Highlight int

	Spinner spinner.Model
	Width   int
	Height  int
	Backend string

	Help help.Model
	Keys workspaceKeyMap

	edit bool
	quit bool
}

// NewWorkspaceModel creates the workspace with a bucket dropdown
func NewWorkspaceModel(lister selector.Lister, bus *interaction.Bus, backend string) WorkspaceModel {
	log := logging.Named("workspace")
	list := selector.New(lister, selector.Options{
		Bus:            bus,
		FailureMessage: "Failed to load buckets",
		OnSelect: func(it selector.Item) {
			log.Info("Bucket selected", zap.String("id", it.ID), zap.String("name", it.Name))
		},
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := WorkspaceModel{
		List:    list,
		Bus:     bus,
		Spinner: s,
		Backend: backend,
		Help:    help.New(),
		Keys: workspaceKeyMap{
			Toggle: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter/space", "open/select"),
			),
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Close: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "close"),
			),
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "reload"),
			),
			Edit: key.NewBinding(
				key.WithKeys("e"),
				key.WithHelp("e", "edit credentials"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
	m.layout()
	return m
}

// Init mounts the dropdown, which starts loading buckets
func (m WorkspaceModel) Init() tea.Cmd {
	return tea.Batch(m.List.Mount(), m.Spinner.Tick)
}

// Update handles keys, mouse clicks and load results
func (m WorkspaceModel) Update(msg tea.Msg) (WorkspaceModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.updateKeys(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)

	case selector.LoadedMsg:
		cmd = m.List.Update(msg)
	}

	m.layout()
	return m, cmd
}

func (m WorkspaceModel) updateKeys(msg tea.KeyMsg) (WorkspaceModel, tea.Cmd) {
	state := m.List.State()

	switch {
	case key.Matches(msg, m.Keys.Toggle):
		if state.Open && msg.String() == "enter" && m.Highlight < len(state.Items) {
			m.List.Select(state.Items[m.Highlight].ID)
			return m, nil
		}
		if m.List.Toggle() && !state.Open {
			m.Highlight = m.selectedIndex()
		}

	case key.Matches(msg, m.Keys.Up):
		if state.Open && m.Highlight > 0 {
			m.Highlight--
		}

	case key.Matches(msg, m.Keys.Down):
		if state.Open && m.Highlight < len(state.Items)-1 {
			m.Highlight++
		}

	case key.Matches(msg, m.Keys.Close):
		m.List.Close()

	case key.Matches(msg, m.Keys.Refresh):
		return m, m.List.Refresh()

	case key.Matches(msg, m.Keys.Edit):
		m.edit = true

	case key.Matches(msg, m.Keys.Quit):
		m.quit = true
	}
	return m, nil
}

// updateMouse publishes the click on the interaction bus, which closes an
// open dropdown when the click lands outside it, then handles clicks on the
// control itself.
func (m *WorkspaceModel) updateMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	m.Bus.Dispatch(interaction.Event{X: msg.X, Y: msg.Y})

	bounds := m.List.Bounds()
	if !bounds.Contains(msg.X, msg.Y) {
		return
	}

	row := msg.Y - bounds.Y
	if row == 0 {
		wasOpen := m.List.State().Open
		if m.List.Toggle() && !wasOpen {
			m.Highlight = m.selectedIndex()
		}
		return
	}

	state := m.List.State()
	if state.Open && row-1 < len(state.Items) {
		m.List.Select(state.Items[row-1].ID)
	}
}

// layout records the dropdown's screen region: the control line plus one
// line per option while open.
func (m *WorkspaceModel) layout() {
	state := m.List.State()
	height := 1
	if state.Open {
		height += len(state.Items)
	}
	m.List.SetBounds(interaction.Region{
		X:      contentLeft + contentIndent,
		Y:      contentTop + triggerRow,
		Width:  dropdownWidth,
		Height: height,
	})
	if m.Highlight >= len(state.Items) {
		m.Highlight = max(len(state.Items)-1, 0)
	}
}

func (m WorkspaceModel) selectedIndex() int {
	state := m.List.State()
	for i, it := range state.Items {
		if it.ID == state.SelectedID {
			return i
		}
	}
	return 0
}

// EditRequested reports whether the user asked to go back to the form
func (m WorkspaceModel) EditRequested() bool {
	return m.edit
}

// QuitRequested reports whether the user pressed q
func (m WorkspaceModel) QuitRequested() bool {
	return m.quit
}

// View renders the workspace. Line positions must match triggerRow.
func (m WorkspaceModel) View() string {
	state := m.List.State()

	lines := []string{
		RenderTitle("Workspace"),
		SubtitleStyle.Render("Choose the bucket to work with."),
		"",
		LabelStyle.Render("Bucket"),
		m.renderTrigger(state),
	}

	if state.Open {
		for i, it := range state.Items {
			style, cursor := OptionStyle, "  "
			if i == m.Highlight {
				style, cursor = HighlightedOptionStyle, "→ "
			}
			lines = append(lines, style.Width(dropdownWidth).Render(cursor+it.Name))
		}
	}

	lines = append(lines, "")
	switch {
	case state.Err != "":
		lines = append(lines, ErrorTextStyle.Render("✗ "+state.Err), DescriptionStyle.Render("Press r to try again."))
	case !state.Loading && len(state.Items) == 0:
		lines = append(lines, DescriptionStyle.Render("No buckets found for this organization."))
	default:
		if it, ok := m.List.Selected(); ok {
			lines = append(lines, "Selected: "+lipgloss.NewStyle().Bold(true).Render(it.Name))
			if it.Description != "" {
				lines = append(lines, DescriptionStyle.Render(it.Description))
			}
		}
	}

	return RenderApplicationContainer(ContentStyle.Render(strings.Join(lines, "\n")), m.Help.View(m.Keys), m.Backend, m.Width, m.Height)
}

func (m WorkspaceModel) renderTrigger(state selector.State) string {
	label := "Select a bucket"
	switch {
	case state.Loading:
		label = m.Spinner.View() + " Loading buckets…"
	case state.Err != "":
		label = "Unavailable"
	default:
		if it, ok := m.List.Selected(); ok {
			label = it.Name
		}
	}

	arrow := "▾"
	if state.Open {
		arrow = "▴"
	}
	width := dropdownWidth - lipgloss.Width(arrow) - 1
	return TriggerStyle.Render(lipgloss.NewStyle().Width(width).MaxWidth(width).Render(" "+label) + arrow + " ")
}
