package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/match"
	"github.com/mcoot/rpsgame-go/internal/services/ranking"
	"github.com/mcoot/rpsgame-go/internal/services/registry"
	"github.com/mcoot/rpsgame-go/internal/storage/memory"
	"github.com/mcoot/rpsgame-go/internal/testutil"
)

type nopPublisher struct{}

func (nopPublisher) SendToAll(event model.EventName, payload any) {}

func (nopPublisher) SendToPlayer(playerID model.PlayerID, event model.EventName, payload any) {}

type ServiceSuite struct {
	suite.Suite
	random   *mocks.MockRandom
	registry *registry.Service
	engine   *match.Engine
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = registry.New(memory.New(), clk, logger)
	s.engine = match.NewEngine(s.registry, ranking.New(s.registry), nopPublisher{}, clk, match.DefaultAwards(), logger)
	s.service = NewService(s.registry, s.engine, DefaultStrategies(s.random), logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestChallengeQueuesBotMove() {
	s.random.QueueIntn(1) // paper

	challenge, err := s.service.Challenge(s.ctx, model.BotStrategyRandom)
	s.Require().NoError(err)
	s.Equal(model.BotPlayerID(model.BotStrategyRandom), challenge.Bot.ID)
	s.Equal("Bot (Random)", challenge.Bot.Name)
	s.False(challenge.Bot.IsOnline)
	s.Equal(model.MovePaper, challenge.Pending.Move)
	s.Equal(1, s.engine.QueueLen())
}

func (s *ServiceSuite) TestChallengeMatchesWaitingPlayer() {
	s.Require().NoError(s.registry.EnsureExists(s.ctx, "ann", "Ann"))
	_, err := s.engine.Submit(s.ctx, "ann", "rock")
	s.Require().NoError(err)

	s.random.QueueIntn(2) // scissors
	_, err = s.service.Challenge(s.ctx, model.BotStrategyRandom)
	s.Require().NoError(err)

	s.Zero(s.engine.QueueLen())
	ann, err := s.registry.Get(s.ctx, "ann")
	s.Require().NoError(err)
	s.Equal(3, ann.Score)
	bot, err := s.registry.Get(s.ctx, model.BotPlayerID(model.BotStrategyRandom))
	s.Require().NoError(err)
	s.Equal(0, bot.Score)
}

func (s *ServiceSuite) TestCycleStrategyRotates() {
	var moves []model.Move
	for i := 0; i < 4; i++ {
		challenge, err := s.service.Challenge(s.ctx, model.BotStrategyCycle)
		s.Require().NoError(err)
		moves = append(moves, challenge.Pending.Move)
	}
	s.Equal([]model.Move{model.MoveRock, model.MovePaper, model.MoveScissors, model.MoveRock}, moves)
}

func (s *ServiceSuite) TestUnknownStrategy() {
	_, err := s.service.Challenge(s.ctx, "psychic")
	s.ErrorIs(err, ErrUnknownStrategy)
	s.Zero(s.engine.QueueLen())

	players, err := s.registry.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ServiceSuite) TestStrategiesInStableOrder() {
	s.Equal([]string{model.BotStrategyRandom, model.BotStrategyCycle}, s.service.Strategies())
}

func TestRandomStrategyUsesAllMoves(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(0, 1, 2)
	strategy := NewRandomStrategy(rnd)

	got := []model.Move{strategy.ChooseMove(), strategy.ChooseMove(), strategy.ChooseMove()}
	assert.Equal(t, model.AllMoves, got)
}
