package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// landingKeyMap defines key bindings for the landing screen
type landingKeyMap struct {
	Launch key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k landingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k landingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Launch, k.Quit}}
}

// LandingModel is the start screen
type LandingModel struct {
	Width   int
	Height  int
	Backend string

	Help help.Model
	Keys landingKeyMap

	launch bool
}

// NewLandingModel creates the landing screen
func NewLandingModel(backend string) LandingModel {
	return LandingModel{
		Backend: backend,
		Help:    help.New(),
		Keys: landingKeyMap{
			Launch: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init implements tea.Model
func (m LandingModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses on the landing screen
func (m LandingModel) Update(msg tea.Msg) (LandingModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.Keys.Launch):
			m.launch = true
		case key.Matches(keyMsg, m.Keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

// LaunchRequested reports whether the user asked to open the connect form
func (m LandingModel) LaunchRequested() bool {
	return m.launch
}

// View renders the landing screen
func (m LandingModel) View() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Explore your InfluxDB buckets"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Connect once, then pick a bucket to work with."))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("Press enter to connect."))

	return RenderApplicationContainer(ContentStyle.Render(b.String()), m.Help.View(m.Keys), m.Backend, m.Width, m.Height)
}
