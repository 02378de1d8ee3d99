package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Players live in a sync.Map of individually locked cells so that concurrent
// updates to different players never contend on a shared lock.
type Storage struct {
	players sync.Map // model.PlayerID -> *playerCell

	accountsMu sync.RWMutex
	accounts   map[model.PlayerID]*model.Account
	loginIndex map[string]model.PlayerID // lower-cased username and email
}

type playerCell struct {
	mu    sync.Mutex
	state model.PlayerState
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:   make(map[model.PlayerID]*model.Account),
		loginIndex: make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// cell returns the cell for id, creating a sentinel-named player if absent.
// created reports whether this call inserted the cell.
func (s *Storage) cell(id model.PlayerID, now time.Time) (c *playerCell, created bool) {
	if existing, ok := s.players.Load(id); ok {
		return existing.(*playerCell), false
	}
	fresh := &playerCell{state: model.PlayerState{
		ID:       id,
		Name:     model.UnknownPlayerName,
		LastSeen: now,
	}}
	actual, loaded := s.players.LoadOrStore(id, fresh)
	return actual.(*playerCell), !loaded
}

// update applies fn to the player's state under its cell lock
func (s *Storage) update(id model.PlayerID, now time.Time, fn func(state *model.PlayerState, created bool)) model.PlayerState {
	c, created := s.cell(id, now)
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state, created)
	return c.state
}

// Player operations

func (s *Storage) EnsurePlayer(ctx context.Context, id model.PlayerID, name string, now time.Time) error {
	s.update(id, now, func(state *model.PlayerState, created bool) {
		if name == "" {
			return
		}
		if created || state.HasSentinelName() {
			state.Name = name
		}
	})
	return nil
}

func (s *Storage) SetOnline(ctx context.Context, id model.PlayerID, online bool, sessionID string, now time.Time) error {
	s.update(id, now, func(state *model.PlayerState, _ bool) {
		state.IsOnline = online
		state.SessionID = sessionID
		state.LastSeen = now
	})
	return nil
}

func (s *Storage) AddScore(ctx context.Context, id model.PlayerID, delta int, now time.Time) (int, error) {
	state := s.update(id, now, func(state *model.PlayerState, _ bool) {
		state.Score = model.ClampScore(state.Score + delta)
		state.LastSeen = now
	})
	return state.Score, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	v, ok := s.players.Load(id)
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	c := v.(*playerCell)
	c.mu.Lock()
	snapshot := c.state
	c.mu.Unlock()
	return &snapshot, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerState, error) {
	var players []*model.PlayerState
	s.players.Range(func(_, v any) bool {
		c := v.(*playerCell)
		c.mu.Lock()
		snapshot := c.state
		c.mu.Unlock()
		players = append(players, &snapshot)
		return true
	})
	return players, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	username := strings.ToLower(account.Username)
	email := strings.ToLower(account.Email)
	if _, taken := s.loginIndex[username]; taken {
		return model.ErrAccountExists
	}
	if email != "" {
		if _, taken := s.loginIndex[email]; taken {
			return model.ErrAccountExists
		}
	}

	stored := *account
	s.accounts[account.ID] = &stored
	s.loginIndex[username] = account.ID
	if email != "" {
		s.loginIndex[email] = account.ID
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	result := *account
	return &result, nil
}

func (s *Storage) GetAccountByLogin(ctx context.Context, usernameOrEmail string) (*model.Account, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	id, ok := s.loginIndex[strings.ToLower(usernameOrEmail)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	result := *s.accounts[id]
	return &result, nil
}
