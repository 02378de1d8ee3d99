package ranking

import (
	"context"
	"sort"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// PlayerSource is the subset of the registry the ranking reads from
type PlayerSource interface {
	GetAll(ctx context.Context) ([]*model.PlayerState, error)
}

// Service derives the leaderboard from the registry on demand. Nothing is cached.
type Service struct {
	players PlayerSource
}

// New creates a new ranking Service
func New(players PlayerSource) *Service {
	return &Service{players: players}
}

// GetRanking returns all players ordered by score descending, then name
// ascending, then player id ascending
func (s *Service) GetRanking(ctx context.Context) ([]model.RankingEntry, error) {
	players, err := s.players.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	entries := make([]model.RankingEntry, len(players))
	for i, p := range players {
		entries[i] = model.RankingEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
			IsOnline: p.IsOnline,
		}
	}
	return entries, nil
}

// NotifyUpdated recomputes the ranking after a score change. The caller is
// responsible for broadcasting the returned payload.
func (s *Service) NotifyUpdated(ctx context.Context) ([]model.RankingEntry, error) {
	return s.GetRanking(ctx)
}
