package registry

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/dependencies/clock"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Service is the live player registry. Every mutation is an upsert applied
// atomically per player by the underlying store; entries are never deleted.
type Service struct {
	store  storage.PlayerStore
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new registry Service
func New(store storage.PlayerStore, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// EnsureExists creates the player with the given name if absent. A player
// still carrying the sentinel name takes the given name; a real name is
// never overwritten.
func (s *Service) EnsureExists(ctx context.Context, playerID model.PlayerID, name string) error {
	if err := s.store.EnsurePlayer(ctx, playerID, name, s.clock.Now()); err != nil {
		s.logger.Error("failed to ensure player",
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
		return err
	}
	return nil
}

// SetOnlineStatus records whether the player is connected and on which session.
// Unknown players are created with the sentinel name.
func (s *Service) SetOnlineStatus(ctx context.Context, playerID model.PlayerID, isOnline bool, sessionID string) error {
	if !isOnline {
		sessionID = ""
	}
	if err := s.store.SetOnline(ctx, playerID, isOnline, sessionID, s.clock.Now()); err != nil {
		s.logger.Error("failed to update online status",
			slog.String("player_id", string(playerID)),
			slog.Bool("online", isOnline),
			slog.Any("error", err))
		return err
	}
	return nil
}

// AdjustScore atomically adds delta to the player's score, clamping at zero.
// Returns the resulting score.
func (s *Service) AdjustScore(ctx context.Context, playerID model.PlayerID, delta int) (int, error) {
	score, err := s.store.AddScore(ctx, playerID, delta, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to adjust score",
			slog.String("player_id", string(playerID)),
			slog.Int("delta", delta),
			slog.Any("error", err))
		return 0, err
	}
	return score, nil
}

// Get returns a snapshot of the player, or model.ErrPlayerNotFound
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (*model.PlayerState, error) {
	return s.store.GetPlayer(ctx, playerID)
}

// GetAll returns snapshots of every known player in no particular order
func (s *Service) GetAll(ctx context.Context) ([]*model.PlayerState, error) {
	return s.store.ListPlayers(ctx)
}
