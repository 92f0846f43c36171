// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// SelectionPrompt is shown to the user when a session is opened to pick a server.
const SelectionPrompt = "To select a statistics server, select one in the list and press **Enter**."

// Sentinel errors returned by ServerSession.
var (
	// ErrInvalidTransition indicates the operation is not allowed in the session's current state.
	ErrInvalidTransition = errors.New("operation not allowed in current session state")

	// ErrNotSelectionMode indicates Confirm was called on a management session.
	ErrNotSelectionMode = errors.New("session is not in selection mode")
)

// SessionMode is fixed when a session is created.
type SessionMode string

const (
	// ModeManagement edits the server list in place.
	ModeManagement SessionMode = "management"
	// ModeSelection picks one existing server and hands it back to the caller.
	ModeSelection SessionMode = "selection"
)

// SessionState is the position of a session in its lifecycle.
type SessionState string

const (
	StateLoading   SessionState = "loading"
	StateReady     SessionState = "ready"
	StateAdding    SessionState = "adding"
	StateDeleting  SessionState = "deleting"
	StateSelecting SessionState = "selecting"
	StateClosed    SessionState = "closed"
)

// SessionResult explains why a session closed. It is empty while the session is open.
type SessionResult string

const (
	ResultAccepted  SessionResult = "accepted"
	ResultCancelled SessionResult = "cancelled"
	ResultFailed    SessionResult = "failed"
)

// ServerEntry is the input collected by the add-server form.
type ServerEntry struct {
	Name         string
	WebURL       string
	DatabaseName string
	Username     string
}

func (e ServerEntry) server() model.StatisticsServer {
	return model.StatisticsServer{
		Name:         e.Name,
		WebURL:       e.WebURL,
		DatabaseName: e.DatabaseName,
		Username:     e.Username,
	}
}

// ServerSession drives one interactive pass over the statistics server list:
//
//	Loading -> Ready -> {Adding, Deleting, Selecting} -> Ready
//	any open state -> Closed(result)
//
// A session is owned by a single caller and is not safe for concurrent use.
type ServerSession struct {
	store  driven.ServerStore
	mode   SessionMode
	logger *slog.Logger

	state     SessionState
	result    SessionResult
	servers   []model.StatisticsServer
	selection *model.Selection

	added      *model.StatisticsServer
	addedIndex int
}

// NewServerSession creates a session in the Loading state. Call Open before
// anything else.
func NewServerSession(store driven.ServerStore, mode SessionMode, logger *slog.Logger) *ServerSession {
	return &ServerSession{
		store:  store,
		mode:   mode,
		logger: logger,
		state:  StateLoading,
	}
}

// Open loads the server list. A load failure closes the session with ResultFailed.
func (s *ServerSession) Open(ctx context.Context) error {
	if s.state != StateLoading {
		return fmt.Errorf("open in state %s: %w", s.state, ErrInvalidTransition)
	}

	if err := s.reload(ctx); err != nil {
		s.close(ResultFailed)
		s.logger.Error("error while loading the servers", "mode", s.mode, "error", err)
		return fmt.Errorf("load servers: %w", err)
	}

	s.state = StateReady
	return nil
}

// Add stores a new server and reloads the list. A nil entry means the add form
// was cancelled and is a no-op. When the write fails the session stays Ready
// with the list it had before.
func (s *ServerSession) Add(ctx context.Context, entry *ServerEntry) error {
	if s.state != StateReady {
		return fmt.Errorf("add in state %s: %w", s.state, ErrInvalidTransition)
	}
	if entry == nil {
		return nil
	}

	s.state = StateAdding
	defer func() { s.state = StateReady }()

	server := entry.server()
	index, err := s.store.Append(ctx, server)
	if err != nil {
		s.logger.Error("error while saving the server", "name", server.Name, "error", err)
		return fmt.Errorf("save server %q: %w", server.Name, err)
	}
	s.added, s.addedIndex = &server, index

	if err := s.reload(ctx); err != nil {
		s.logger.Error("error while reloading the servers", "error", err)
		return fmt.Errorf("reload servers: %w", err)
	}

	s.logger.Info("statistics server added", "name", server.Name, "index", index, "count", len(s.servers))
	return nil
}

// Delete removes the server at index and reloads the list. index refers to the
// list as last loaded by this session.
func (s *ServerSession) Delete(ctx context.Context, index int) error {
	if s.state != StateReady {
		return fmt.Errorf("delete in state %s: %w", s.state, ErrInvalidTransition)
	}
	if index < 0 || index >= len(s.servers) {
		return fmt.Errorf("delete server at %d: %w", index, driven.ErrServerNotFound)
	}

	s.state = StateDeleting
	defer func() { s.state = StateReady }()

	if err := s.store.RemoveAt(ctx, index); err != nil {
		s.logger.Error("error while deleting the server", "index", index, "error", err)
		return fmt.Errorf("delete server at %d: %w", index, err)
	}

	if err := s.reload(ctx); err != nil {
		s.logger.Error("error while reloading the servers", "error", err)
		return fmt.Errorf("reload servers: %w", err)
	}

	s.logger.Info("statistics server deleted", "index", index, "count", len(s.servers))
	return nil
}

// Confirm accepts the server at index and closes the session with ResultAccepted.
// It is only valid in selection mode. An unknown index or a failed read leaves
// the session Ready.
func (s *ServerSession) Confirm(ctx context.Context, index int) (model.Selection, error) {
	if s.mode != ModeSelection {
		return model.Selection{}, ErrNotSelectionMode
	}
	if s.state != StateReady {
		return model.Selection{}, fmt.Errorf("confirm in state %s: %w", s.state, ErrInvalidTransition)
	}
	if index < 0 || index >= len(s.servers) {
		return model.Selection{}, fmt.Errorf("confirm server at %d: %w", index, driven.ErrServerNotFound)
	}

	s.state = StateSelecting

	server, err := s.store.SelectAt(ctx, index)
	if err != nil {
		s.state = StateReady
		s.logger.Error("error while selecting the server", "index", index, "error", err)
		return model.Selection{}, fmt.Errorf("select server at %d: %w", index, err)
	}

	selection := server.Selection()
	s.selection = &selection
	s.close(ResultAccepted)

	s.logger.Info("statistics server selected", "name", server.Name, "database", server.DatabaseName)
	return selection, nil
}

// Cancel closes the session with ResultCancelled. Cancelling a closed session
// keeps its original result.
func (s *ServerSession) Cancel() {
	if s.state == StateClosed {
		return
	}
	s.close(ResultCancelled)
}

// Mode returns the mode the session was created with.
func (s *ServerSession) Mode() SessionMode { return s.mode }

// State returns the current state.
func (s *ServerSession) State() SessionState { return s.state }

// Result returns why the session closed, or "" while it is open.
func (s *ServerSession) Result() SessionResult { return s.result }

// Servers returns a copy of the most recently loaded list.
func (s *ServerSession) Servers() []model.StatisticsServer {
	out := make([]model.StatisticsServer, len(s.servers))
	copy(out, s.servers)
	return out
}

// Selection returns the accepted server, if any.
func (s *ServerSession) Selection() (model.Selection, bool) {
	if s.selection == nil {
		return model.Selection{}, false
	}
	return *s.selection, true
}

// LastAdded returns the server stored by the most recent successful Add and the
// position the store reported for it. The position is taken from the write
// itself, so concurrent writers cannot shift it before the reload.
func (s *ServerSession) LastAdded() (int, model.StatisticsServer, bool) {
	if s.added == nil {
		return 0, model.StatisticsServer{}, false
	}
	return s.addedIndex, *s.added, true
}

// Prompt returns the usage hint for selection mode, or "" in management mode.
func (s *ServerSession) Prompt() string {
	if s.mode != ModeSelection {
		return ""
	}
	return SelectionPrompt
}

func (s *ServerSession) reload(ctx context.Context) error {
	servers, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.servers = servers
	return nil
}

func (s *ServerSession) close(result SessionResult) {
	s.state = StateClosed
	s.result = result
}
