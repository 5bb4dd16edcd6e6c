package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/connect"
	"github.com/muurk/fluxvision/internal/interaction"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/selector"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLanding   Screen = "landing"
	ScreenConnect   Screen = "connect"
	ScreenWorkspace Screen = "workspace"
)

// Deps are the collaborators the screens run against. Local mode and remote
// server mode differ only in what is plugged in here.
type Deps struct {
	Store   connect.CredentialStore
	Checker connect.ConnectivityChecker
	Buckets selector.Lister

	// Backend describes where credentials live; shown in the header
	Backend string
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	LandingModel   LandingModel
	ConnectModel   ConnectModel
	WorkspaceModel WorkspaceModel

	deps Deps
	bus  *interaction.Bus

	Width  int
	Height int
}

// NewAppModel creates the application at the landing screen
func NewAppModel(deps Deps) AppModel {
	return AppModel{
		CurrentScreen: ScreenLanding,
		LandingModel:  NewLandingModel(deps.Backend),
		deps:          deps,
		bus:           interaction.NewBus(),
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.LandingModel.Init()
}

// Update handles global keys and routes everything else to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.LandingModel.Width, m.LandingModel.Height = msg.Width, msg.Height
		m.ConnectModel.Width, m.ConnectModel.Height = msg.Width, msg.Height
		m.WorkspaceModel.Width, m.WorkspaceModel.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenLanding:
		m.LandingModel, cmd = m.LandingModel.Update(msg)
		if m.LandingModel.LaunchRequested() {
			return m.transitionTo(ScreenConnect)
		}

	case ScreenConnect:
		m.ConnectModel, cmd = m.ConnectModel.Update(msg)
		switch {
		case m.ConnectModel.Connected():
			return m.transitionTo(ScreenWorkspace)
		case m.ConnectModel.BackRequested():
			return m.transitionTo(ScreenLanding)
		}

	case ScreenWorkspace:
		m.WorkspaceModel, cmd = m.WorkspaceModel.Update(msg)
		switch {
		case m.WorkspaceModel.QuitRequested():
			return m.quit()
		case m.WorkspaceModel.EditRequested():
			return m.transitionTo(ScreenConnect)
		}
	}

	return m, cmd
}

// transitionTo leaves the current screen, tearing down its controller, and
// starts a fresh instance of the target screen.
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.unmountCurrent()
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenLanding:
		m.LandingModel = NewLandingModel(m.deps.Backend)
		cmd = m.LandingModel.Init()

	case ScreenConnect:
		m.ConnectModel = NewConnectModel(m.deps.Store, m.deps.Checker, m.deps.Backend)
		cmd = m.ConnectModel.Init()

	case ScreenWorkspace:
		m.WorkspaceModel = NewWorkspaceModel(m.deps.Buckets, m.bus, m.deps.Backend)
		cmd = m.WorkspaceModel.Init()
	}
	m.LandingModel.Width, m.LandingModel.Height = m.Width, m.Height
	m.ConnectModel.Width, m.ConnectModel.Height = m.Width, m.Height
	m.WorkspaceModel.Width, m.WorkspaceModel.Height = m.Width, m.Height

	return m, cmd
}

// quit tears down the current screen's controller and exits the program
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.unmountCurrent()
	return m, tea.Quit
}

func (m AppModel) unmountCurrent() {
	switch m.CurrentScreen {
	case ScreenConnect:
		if m.ConnectModel.Connector != nil {
			m.ConnectModel.Connector.Unmount()
		}
	case ScreenWorkspace:
		if m.WorkspaceModel.List != nil {
			m.WorkspaceModel.List.Unmount()
		}
	}
	if n := m.bus.Len(); n > 0 {
		logging.Warn("Interaction listeners left after unmount", zap.Int("count", n), zap.String("screen", string(m.CurrentScreen)))
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenLanding:
		return m.LandingModel.View()
	case ScreenConnect:
		return m.ConnectModel.View()
	case ScreenWorkspace:
		return m.WorkspaceModel.View()
	default:
		return "Unknown screen"
	}
}

// Run starts the full-screen TUI and blocks until the user quits
func Run(deps Deps, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	_, err := tea.NewProgram(NewAppModel(deps), opts...).Run()
	return err
}
