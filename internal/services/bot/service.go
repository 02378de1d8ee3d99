package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
)

// ErrUnknownStrategy is returned when no bot plays the requested strategy
var ErrUnknownStrategy = errors.New("unknown bot strategy")

// Registry is the subset of the player registry bots need
type Registry interface {
	EnsureExists(ctx context.Context, playerID model.PlayerID, name string) error
	Get(ctx context.Context, playerID model.PlayerID) (*model.PlayerState, error)
}

// Engine queues moves for matching
type Engine interface {
	Submit(ctx context.Context, playerID model.PlayerID, rawMove string) (model.PendingMove, error)
}

// Challenge describes a bot move that was queued on request
type Challenge struct {
	Bot     *model.PlayerState
	Pending model.PendingMove
}

// Service queues moves for house bots so a lone player can still get a match.
// Bots are ordinary registry players that never come online.
type Service struct {
	registry   Registry
	engine     Engine
	strategies map[string]Strategy
	logger     *slog.Logger
}

// DefaultStrategies returns one instance of every built-in strategy
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom: NewRandomStrategy(rnd),
		model.BotStrategyCycle:  NewCycleStrategy(),
	}
}

// NewService creates a new bot Service
func NewService(registry Registry, engine Engine, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		registry:   registry,
		engine:     engine,
		strategies: strategies,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Challenge queues one move from the bot playing strategy. The move is
// matched like any other, so it pairs with the oldest pending move if there
// is one. Errors from the engine are returned with the queued move.
func (s *Service) Challenge(ctx context.Context, strategy string) (*Challenge, error) {
	strat, ok := s.strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	botID := model.BotPlayerID(strategy)
	name := "Bot (" + model.BotStrategyDisplayName(strategy) + ")"
	if err := s.registry.EnsureExists(ctx, botID, name); err != nil {
		return nil, fmt.Errorf("register bot %s: %w", botID, err)
	}

	move := strat.ChooseMove()
	pending, submitErr := s.engine.Submit(ctx, botID, string(move))
	if pending.PlayerID == "" {
		// Nothing was queued
		return nil, submitErr
	}

	s.logger.Debug("bot move queued",
		slog.String("bot_id", string(botID)),
		slog.String("strategy", strategy))

	bot, err := s.registry.Get(ctx, botID)
	if err != nil {
		return nil, errors.Join(submitErr, err)
	}

	return &Challenge{Bot: bot, Pending: pending}, submitErr
}

// Strategies returns the strategies this service can play
func (s *Service) Strategies() []string {
	out := make([]string, 0, len(s.strategies))
	for _, name := range model.ValidBotStrategies() {
		if _, ok := s.strategies[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
