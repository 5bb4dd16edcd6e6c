package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fluxvision/internal/connect"
)

// connectKeyMap defines key bindings for the credential form
type connectKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Clear  key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k connectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Clear, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k connectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Clear, k.Back}}
}

var formFields = [...]connect.Field{connect.FieldURL, connect.FieldOrg, connect.FieldToken}

// connectEvents records upward callbacks fired by the connector. It is
// shared by pointer because the model itself is copied on every update.
type connectEvents struct {
	back      bool
	connected bool
}

// ConnectModel is the credential form screen
type ConnectModel struct {
	Connector *connect.Connector

	Inputs  []textinput.Model
	Focus   int
	Spinner spinner.Model

	Width   int
	Height  int
	Backend string

	Help help.Model
	Keys connectKeyMap

	events *connectEvents
}

// NewConnectModel creates the form bound to a new connector
func NewConnectModel(store connect.CredentialStore, checker connect.ConnectivityChecker, backend string) ConnectModel {
	events := &connectEvents{}
	connector := connect.New(store, checker, connect.Options{
		OnBack:      func() { events.back = true },
		OnConnected: func() { events.connected = true },
	})

	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 48
		in.CharLimit = 512
		switch f {
		case connect.FieldURL:
			in.Placeholder = "http://localhost:8086"
		case connect.FieldOrg:
			in.Placeholder = "my-org"
		case connect.FieldToken:
			in.Placeholder = "API token"
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ConnectModel{
		Connector: connector,
		Inputs:    inputs,
		Spinner:   s,
		Backend:   backend,
		Help:      help.New(),
		Keys: connectKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Clear: key.NewBinding(
				key.WithKeys("ctrl+x"),
				key.WithHelp("ctrl+x", "clear"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
		},
		events: events,
	}
}

// Init mounts the connector, which starts loading saved credentials
func (m ConnectModel) Init() tea.Cmd {
	return tea.Batch(m.Connector.Mount(), textinput.Blink, m.Spinner.Tick)
}

// Update handles keys, spinner ticks and connector results
func (m ConnectModel) Update(msg tea.Msg) (ConnectModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case connect.LoadedMsg, connect.SavedMsg, connect.ProbedMsg:
		cmd := m.Connector.Update(msg)
		m.syncInputs()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	return m, cmd
}

func (m ConnectModel) updateKeys(msg tea.KeyMsg) (ConnectModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.Connector.Back()
		return m, nil

	case key.Matches(msg, m.Keys.Submit):
		return m, m.Connector.Submit()

	case key.Matches(msg, m.Keys.Clear):
		m.Connector.Clear()
		m.syncInputs()
		return m, nil

	case key.Matches(msg, m.Keys.Next):
		return m, m.setFocus((m.Focus + 1) % len(m.Inputs))

	case key.Matches(msg, m.Keys.Prev):
		return m, m.setFocus((m.Focus + len(m.Inputs) - 1) % len(m.Inputs))
	}

	var cmd tea.Cmd
	before := m.Inputs[m.Focus].Value()
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	if after := m.Inputs[m.Focus].Value(); after != before {
		m.Connector.SetField(formFields[m.Focus], after)
	}
	return m, cmd
}

func (m *ConnectModel) setFocus(i int) tea.Cmd {
	m.Inputs[m.Focus].Blur()
	m.Focus = i
	return m.Inputs[m.Focus].Focus()
}

// syncInputs copies the connector's credentials into the text inputs
func (m *ConnectModel) syncInputs() {
	creds := m.Connector.State().Credentials
	values := [...]string{creds.URL, creds.Org, creds.Token}
	for i, v := range values {
		if m.Inputs[i].Value() != v {
			m.Inputs[i].SetValue(v)
		}
	}
}

// BackRequested reports whether the connector asked to leave the form
func (m ConnectModel) BackRequested() bool {
	return m.events.back
}

// Connected reports whether the connector reached InfluxDB
func (m ConnectModel) Connected() bool {
	return m.events.connected
}

// View renders the form
func (m ConnectModel) View() string {
	state := m.Connector.State()

	var b strings.Builder
	b.WriteString(RenderTitle("Connect to InfluxDB"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Credentials are saved before connectivity is checked."))
	b.WriteString("\n\n")

	for i, f := range formFields {
		label := LabelStyle
		if i == m.Focus {
			label = FocusedLabelStyle
		}
		b.WriteString(label.Render(f.String()))
		b.WriteString(m.Inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case state.Submitting:
		label := " Saving…"
		if state.Status == connect.StatusChecking {
			label = " Checking…"
		}
		b.WriteString(DisabledButtonStyle.Render(m.Spinner.View() + label))
	case state.Initializing:
		b.WriteString(m.Spinner.View() + " Loading saved credentials…")
	default:
		b.WriteString(ButtonStyle.Render("Connect"))
	}
	b.WriteString("\n")

	if notice := RenderNotice(state.Status, state.Message); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
	}

	return RenderApplicationContainer(ContentStyle.Render(b.String()), m.Help.View(m.Keys), m.Backend, m.Width, m.Height)
}
