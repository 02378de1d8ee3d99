package gateway

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
)

// State is the lifecycle stage of one connection
type State int

const (
	StateUnauthenticated State = iota
	StateJoined
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateJoined:
		return "joined"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session is one client connection. Identity is fixed when the connection
// opens and is nil for anonymous connections.
type Session struct {
	ID       string
	Identity *auth.Identity

	mu    sync.Mutex
	state State
}

// NewSession creates a session with a fresh connection id
func NewSession(identity *auth.Identity) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Identity: identity,
		state:    StateUnauthenticated,
	}
}

// PlayerID returns the identity's player id, or empty for anonymous sessions
func (s *Session) PlayerID() model.PlayerID {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.PlayerID
}

// State returns the current lifecycle stage
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition moves to next unless the session is already disconnected.
// Returns the previous state.
func (s *Session) transition(next State) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	if prev == StateDisconnected {
		return prev, false
	}
	s.state = next
	return prev, true
}
