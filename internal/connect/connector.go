package connect

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/lifecycle"
	"github.com/muurk/fluxvision/internal/logging"
)

// Messages shown to the user.
const (
	MessageChecking  = "Probing connectivity…"
	MessageConnected = "Connected to InfluxDB"

	FallbackSave  = "Failed to save credentials"
	FallbackProbe = "Connectivity check failed"
	FallbackLoad  = "Failed to load saved credentials"
)

// CredentialStore persists credentials. Load returns influx.ErrNotFound when
// nothing has been saved yet.
type CredentialStore interface {
	Load(ctx context.Context) (influx.Credentials, error)
	Save(ctx context.Context, creds influx.Credentials) error
}

// ConnectivityChecker verifies that the persisted credentials reach InfluxDB.
type ConnectivityChecker interface {
	Probe(ctx context.Context) error
}

// Field selects one of the editable form fields.
type Field int

const (
	FieldURL Field = iota
	FieldOrg
	FieldToken
)

// String returns the field's form label
func (f Field) String() string {
	switch f {
	case FieldURL:
		return "URL"
	case FieldOrg:
		return "Org"
	case FieldToken:
		return "Token"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Status is the outcome shown beneath the form.
type Status int

const (
	StatusIdle Status = iota
	StatusChecking
	StatusOK
	StatusError
)

// String returns a lowercase name for the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusChecking:
		return "checking"
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a snapshot of the controller. Message is empty exactly when
// Status is StatusIdle.
type State struct {
	Credentials influx.Credentials
	Status      Status
	Message     string

	// Submitted is true from Submit until the cycle fails; it stays true
	// after a successful connection.
	Submitted bool

	// Submitting is true from the start of the save until the probe resolves.
	Submitting bool

	// Initializing is true while the saved credentials are being loaded.
	Initializing bool
}

// Options are the upward callbacks. Any of them may be nil.
type Options struct {
	OnBack      func()
	OnConnected func()

	// OnChange observes every state mutation, once per mutation.
	OnChange func(State)
}

// LoadedMsg carries the result of loading saved credentials
type LoadedMsg struct {
	token lifecycle.Token
	creds influx.Credentials
	err   error
}

// SavedMsg carries the result of persisting credentials
type SavedMsg struct {
	token lifecycle.Token
	err   error
}

// ProbedMsg carries the result of the connectivity probe
type ProbedMsg struct {
	token lifecycle.Token
	err   error
}

// Connector is the credential form controller. It must only be used from a
// single goroutine, normally the Bubble Tea update loop.
type Connector struct {
	store   CredentialStore
	checker ConnectivityChecker
	opts    Options

	scope   *lifecycle.Scope
	state   State
	mounted bool

	// touched is set once the user edits, clears or submits the form. A
	// late-arriving load never overwrites what the user has done.
	touched bool

	log *zap.Logger
}

// New creates a connector with empty fields and idle status.
func New(store CredentialStore, checker ConnectivityChecker, opts Options) *Connector {
	return &Connector{
		store:   store,
		checker: checker,
		opts:    opts,
		scope:   lifecycle.NewScope(context.Background()),
		log:     logging.Named("connect"),
	}
}

// State returns a snapshot of the controller state.
func (c *Connector) State() State {
	return c.state
}

// Mount starts the one-shot load of saved credentials.
func (c *Connector) Mount() tea.Cmd {
	if c.mounted || c.scope.Closed() {
		return nil
	}
	c.mounted = true

	tok := c.scope.Begin(lifecycle.OpLoad)
	c.mutate(func(s *State) { s.Initializing = true })

	store := c.store
	return func() tea.Msg {
		creds, err := store.Load(tok.Ctx)
		return LoadedMsg{token: tok, creds: creds, err: err}
	}
}

// Update applies collaborator results. Messages it does not own are ignored.
func (c *Connector) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		if !c.accept(msg.token) {
			return nil
		}
		c.applyLoad(msg.creds, msg.err)
	case SavedMsg:
		if !c.accept(msg.token) {
			return nil
		}
		return c.applySave(msg.err)
	case ProbedMsg:
		if !c.accept(msg.token) {
			return nil
		}
		c.applyProbe(msg.err)
	}
	return nil
}

// SetField updates exactly one field. Status is left as it is.
func (c *Connector) SetField(f Field, value string) {
	if c.scope.Closed() {
		return
	}
	c.touched = true
	c.mutate(func(s *State) {
		switch f {
		case FieldURL:
			s.Credentials.URL = value
		case FieldOrg:
			s.Credentials.Org = value
		case FieldToken:
			s.Credentials.Token = value
		}
	})
}

// Clear empties every field and resets Submitted. Status is left as it is.
// A cycle already in flight keeps running and sets Submitted again if the
// probe succeeds.
func (c *Connector) Clear() {
	if c.scope.Closed() {
		return
	}
	c.touched = true
	c.mutate(func(s *State) {
		s.Credentials = influx.Credentials{}
		s.Submitted = false
	})
}

// Submit starts a save-then-probe cycle. It returns nil while a cycle is
// already running or after Unmount.
func (c *Connector) Submit() tea.Cmd {
	if c.scope.Closed() || c.state.Submitting {
		return nil
	}
	c.touched = true

	creds := c.state.Credentials.Normalized()
	tok := c.scope.Begin(lifecycle.OpSave)
	c.mutate(func(s *State) {
		s.Status = StatusIdle
		s.Message = ""
		s.Submitted = true
		s.Submitting = true
	})

	c.log.Info("Saving credentials",
		zap.String("url", creds.URL),
		zap.String("org", creds.Org),
		logging.TokenField(creds.Token),
	)

	store := c.store
	return func() tea.Msg {
		return SavedMsg{token: tok, err: store.Save(tok.Ctx, creds)}
	}
}

// Back asks the owner to leave the form.
func (c *Connector) Back() {
	if c.opts.OnBack != nil {
		c.opts.OnBack()
	}
}

// Unmount tears the controller down. In-flight calls are cancelled and their
// results dropped.
func (c *Connector) Unmount() {
	c.scope.Close()
}

func (c *Connector) accept(tok lifecycle.Token) bool {
	if !c.scope.Valid(tok) {
		c.log.Debug("Dropping stale result", zap.String("op", string(tok.Op)), zap.Uint64("gen", tok.Gen))
		return false
	}
	c.scope.Finish(tok)
	return true
}

func (c *Connector) applyLoad(creds influx.Credentials, err error) {
	switch {
	case influx.IsNotFound(err):
		c.log.Debug("No saved credentials")
		c.mutate(func(s *State) { s.Initializing = false })

	case err != nil:
		c.log.Warn("Loading saved credentials failed", zap.Error(err))
		c.mutate(func(s *State) {
			s.Initializing = false
			if s.Submitting || s.Status != StatusIdle {
				return
			}
			s.Status = StatusError
			s.Message = influx.DetailOr(err, FallbackLoad)
		})

	default:
		populate := !c.touched
		c.mutate(func(s *State) {
			s.Initializing = false
			if populate {
				s.Credentials = creds
			}
		})
	}
}

func (c *Connector) applySave(err error) tea.Cmd {
	if err != nil {
		c.log.Warn("Saving credentials failed", zap.Error(err))
		c.fail(influx.DetailOr(err, FallbackSave))
		return nil
	}

	tok := c.scope.Begin(lifecycle.OpProbe)
	c.mutate(func(s *State) {
		s.Status = StatusChecking
		s.Message = MessageChecking
	})

	checker := c.checker
	return func() tea.Msg {
		return ProbedMsg{token: tok, err: checker.Probe(tok.Ctx)}
	}
}

func (c *Connector) applyProbe(err error) {
	if err != nil {
		c.log.Warn("Connectivity probe failed", zap.Error(err))
		c.fail(influx.DetailOr(err, FallbackProbe))
		return
	}

	c.log.Info("Connected to InfluxDB")
	c.mutate(func(s *State) {
		s.Status = StatusOK
		s.Message = MessageConnected
		s.Submitted = true
		s.Submitting = false
	})
	if c.opts.OnConnected != nil {
		c.opts.OnConnected()
	}
}

func (c *Connector) fail(message string) {
	c.mutate(func(s *State) {
		s.Status = StatusError
		s.Message = message
		s.Submitted = false
		s.Submitting = false
	})
}

func (c *Connector) mutate(fn func(*State)) {
	fn(&c.state)
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.state)
	}
}
