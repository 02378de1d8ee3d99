package storage

import (
	"context"
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// PlayerStore holds live player state. Every mutation is a single atomic
// upsert per player; callers never hold references to stored entries.
type PlayerStore interface {
	// EnsurePlayer creates the player with name and score 0 if absent. An existing
	// player still carrying the sentinel name takes the given name.
	EnsurePlayer(ctx context.Context, id model.PlayerID, name string, now time.Time) error
	// SetOnline upserts the online flag and session id, creating a sentinel-named player if needed
	SetOnline(ctx context.Context, id model.PlayerID, online bool, sessionID string, now time.Time) error
	// AddScore adds delta to the score, clamped at 0, creating the player if needed.
	// Returns the new score.
	AddScore(ctx context.Context, id model.PlayerID, delta int, now time.Time) (int, error)

	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error)
	ListPlayers(ctx context.Context) ([]*model.PlayerState, error)
}

// AccountStore holds registered logins
type AccountStore interface {
	// CreateAccount saves a new account, failing with ErrAccountExists if the
	// username or email is taken
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)
	GetAccountByLogin(ctx context.Context, usernameOrEmail string) (*model.Account, error)
}

// Storage combines every store the application needs
type Storage interface {
	PlayerStore
	AccountStore
}
