package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Player tests

func (s *StorageSuite) TestEnsurePlayerCreates() {
	err := s.storage.EnsurePlayer(s.ctx, "player-1", "Alice", s.now)
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), player.ID)
	s.Equal("Alice", player.Name)
	s.Equal(0, player.Score)
	s.False(player.IsOnline)
}

func (s *StorageSuite) TestEnsurePlayerNeverOverwritesRealName() {
	_ = s.storage.EnsurePlayer(s.ctx, "player-1", "Alice", s.now)
	_ = s.storage.EnsurePlayer(s.ctx, "player-1", "Mallory", s.now)

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("Alice", player.Name)
}

func (s *StorageSuite) TestEnsurePlayerReplacesSentinelName() {
	_ = s.storage.SetOnline(s.ctx, "player-1", true, "conn-1", s.now)

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(model.UnknownPlayerName, player.Name)

	_ = s.storage.EnsurePlayer(s.ctx, "player-1", "Alice", s.now)
	player, _ = s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("Alice", player.Name)
	s.True(player.IsOnline)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSetOnlineTracksSession() {
	_ = s.storage.SetOnline(s.ctx, "player-1", true, "conn-1", s.now)
	_ = s.storage.SetOnline(s.ctx, "player-1", true, "conn-2", s.now.Add(time.Minute))

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("conn-2", player.SessionID)
	s.Equal(s.now.Add(time.Minute), player.LastSeen)

	_ = s.storage.SetOnline(s.ctx, "player-1", false, "", s.now.Add(2*time.Minute))
	player, _ = s.storage.GetPlayer(s.ctx, "player-1")
	s.False(player.IsOnline)
	s.Empty(player.SessionID)
}

func (s *StorageSuite) TestAddScoreClampsAtZero() {
	score, err := s.storage.AddScore(s.ctx, "player-1", 3, s.now)
	s.Require().NoError(err)
	s.Equal(3, score)

	score, err = s.storage.AddScore(s.ctx, "player-1", -10, s.now)
	s.Require().NoError(err)
	s.Equal(0, score)
}

func (s *StorageSuite) TestAddScoreCreatesUnknownPlayer() {
	score, _ := s.storage.AddScore(s.ctx, "player-1", -4, s.now)
	s.Equal(0, score)

	player, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.UnknownPlayerName, player.Name)
	s.Equal(0, player.Score)
}

func (s *StorageSuite) TestAddScoreConcurrentNoLostUpdates() {
	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, _ = s.storage.AddScore(s.ctx, "hot-player", 1, s.now)
				_, _ = s.storage.AddScore(s.ctx, model.PlayerID(fmt.Sprintf("p-%d", j)), 1, s.now)
			}
		}()
	}
	wg.Wait()

	player, _ := s.storage.GetPlayer(s.ctx, "hot-player")
	s.Equal(workers*perWorker, player.Score)

	for j := 0; j < perWorker; j++ {
		p, err := s.storage.GetPlayer(s.ctx, model.PlayerID(fmt.Sprintf("p-%d", j)))
		s.Require().NoError(err)
		s.Equal(workers, p.Score)
	}
}

func (s *StorageSuite) TestListPlayersReturnsSnapshots() {
	_ = s.storage.EnsurePlayer(s.ctx, "player-1", "Alice", s.now)
	_ = s.storage.EnsurePlayer(s.ctx, "player-2", "Bob", s.now)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)

	// Mutating a snapshot must not leak into the store
	players[0].Score = 999
	stored, _ := s.storage.GetPlayer(s.ctx, players[0].ID)
	s.Equal(0, stored.Score)
}

// Account tests

func (s *StorageSuite) TestCreateAndGetAccount() {
	account := &model.Account{
		ID:           "acc-1",
		Username:     "alice",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: "hash",
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))

	byID, err := s.storage.GetAccount(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.storage.GetAccountByLogin(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("acc-1"), byName.ID)

	byEmail, err := s.storage.GetAccountByLogin(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("acc-1"), byEmail.ID)
}

func (s *StorageSuite) TestCreateAccountRejectsDuplicates() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{ID: "acc-1", Username: "alice", Email: "a@example.com"})

	err := s.storage.CreateAccount(s.ctx, &model.Account{ID: "acc-2", Username: "Alice"})
	s.ErrorIs(err, model.ErrAccountExists)

	err = s.storage.CreateAccount(s.ctx, &model.Account{ID: "acc-3", Username: "other", Email: "A@example.com"})
	s.ErrorIs(err, model.ErrAccountExists)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetAccountByLogin(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
