package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/rpsgame-go/internal/dependencies/clock"
	"github.com/mcoot/rpsgame-go/internal/model"
)

// Awards holds the score given for each result. Values are configuration.
type Awards struct {
	Win  int
	Lose int
	Draw int
}

// DefaultAwards returns the standard 3/0/1 scoring
func DefaultAwards() Awards {
	return Awards{
		Win:  3,
		Lose: 0,
		Draw: 1,
	}
}

// For returns the award for a result
func (a Awards) For(result model.Result) int {
	switch result {
	case model.ResultWin:
		return a.Win
	case model.ResultLose:
		return a.Lose
	default:
		return a.Draw
	}
}

// Publisher delivers engine output to connected clients. Delivery is
// fire-and-forget; implementations must not block on slow clients.
type Publisher interface {
	SendToAll(event model.EventName, payload any)
	SendToPlayer(playerID model.PlayerID, event model.EventName, payload any)
}

// Registry is the subset of the player registry the engine mutates
type Registry interface {
	AdjustScore(ctx context.Context, playerID model.PlayerID, delta int) (int, error)
	Get(ctx context.Context, playerID model.PlayerID) (*model.PlayerState, error)
}

// Ranking recomputes the leaderboard after a match
type Ranking interface {
	NotifyUpdated(ctx context.Context) ([]model.RankingEntry, error)
}

// Engine owns the FIFO queue of pending moves and resolves them in pairs
type Engine struct {
	registry  Registry
	ranking   Ranking
	publisher Publisher
	clock     clock.Clock
	awards    Awards
	logger    *slog.Logger

	mu    sync.Mutex // guards queue
	queue moveQueue
}

// NewEngine creates a new match Engine
func NewEngine(
	registry Registry,
	ranking Ranking,
	publisher Publisher,
	clock clock.Clock,
	awards Awards,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry:  registry,
		ranking:   ranking,
		publisher: publisher,
		clock:     clock,
		awards:    awards,
		logger:    logger.With(slog.String("component", "match-engine")),
	}
}

// Submit validates a raw move, queues it and drains any complete pairs.
// Invalid moves fail with model.ErrInvalidMove and leave the queue untouched.
// The returned PendingMove is valid even when draining reports an error.
func (e *Engine) Submit(ctx context.Context, playerID model.PlayerID, rawMove string) (model.PendingMove, error) {
	move, err := model.ParseMove(rawMove)
	if err != nil {
		return model.PendingMove{}, err
	}

	pending := model.PendingMove{
		PlayerID:    playerID,
		Move:        move,
		SubmittedAt: e.clock.Now(),
	}

	e.mu.Lock()
	e.queue.push(pending)
	depth := e.queue.len()
	e.mu.Unlock()

	e.logger.Debug("move queued",
		slog.String("player_id", string(playerID)),
		slog.String("move", string(move)),
		slog.Int("queue_depth", depth))

	return pending, e.ProcessMatches(ctx)
}

// ProcessMatches drains the queue two entries at a time, oldest first, until
// fewer than two remain. Safe to call concurrently: each pair is removed
// atomically so no move is used twice or lost. A failing match does not stop
// the remaining pairs from being resolved; failures are returned together
// wrapped in model.ErrEngineFailure.
func (e *Engine) ProcessMatches(ctx context.Context) error {
	var errs []error
	for {
		first, second, ok := e.dequeuePair()
		if !ok {
			break
		}
		if err := e.executeMatch(ctx, first, second); err != nil {
			e.logger.Error("match failed",
				slog.String("player1", string(first.PlayerID)),
				slog.String("player2", string(second.PlayerID)),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrEngineFailure, errors.Join(errs...))
	}
	return nil
}

// QueueLen returns the number of moves awaiting an opponent
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.len()
}

// Pending returns a snapshot of the queue in arrival order
func (e *Engine) Pending() []model.PendingMove {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.snapshot()
}

func (e *Engine) dequeuePair() (model.PendingMove, model.PendingMove, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.popPair()
}

// executeMatch applies scores and notifies both players, then everyone
func (e *Engine) executeMatch(ctx context.Context, first, second model.PendingMove) error {
	outcome := Resolve(first, second, e.awards)

	if _, err := e.registry.AdjustScore(ctx, outcome.Player1, outcome.Delta1); err != nil {
		return fmt.Errorf("adjust score for %s: %w", outcome.Player1, err)
	}
	if _, err := e.registry.AdjustScore(ctx, outcome.Player2, outcome.Delta2); err != nil {
		return fmt.Errorf("adjust score for %s: %w", outcome.Player2, err)
	}

	// Re-read after the update for current display names
	player1, err := e.lookup(ctx, outcome.Player1)
	if err != nil {
		return err
	}
	player2, err := e.lookup(ctx, outcome.Player2)
	if err != nil {
		return err
	}
	if player1 == nil || player2 == nil {
		// Scores are committed but neither side is told, to avoid half-notified
		// matches. Should not happen while players are never deleted.
		e.logger.Error("match outcome dropped: player missing from registry after score update",
			slog.String("player1", string(outcome.Player1)),
			slog.String("player2", string(outcome.Player2)),
			slog.Bool("player1_found", player1 != nil),
			slog.Bool("player2_found", player2 != nil))
		return nil
	}

	e.publisher.SendToPlayer(outcome.Player1, model.EventRoundResult, model.RoundResult{
		You:          player1.Name,
		Opponent:     player2.Name,
		YourMove:     outcome.Move1,
		OpponentMove: outcome.Move2,
		Result:       outcome.Result1,
		DeltaScore:   outcome.Delta1,
	})
	e.publisher.SendToPlayer(outcome.Player2, model.EventRoundResult, model.RoundResult{
		You:          player2.Name,
		Opponent:     player1.Name,
		YourMove:     outcome.Move2,
		OpponentMove: outcome.Move1,
		Result:       outcome.Result2,
		DeltaScore:   outcome.Delta2,
	})

	e.logger.Info("match resolved",
		slog.String("player1", string(outcome.Player1)),
		slog.String("player2", string(outcome.Player2)),
		slog.String("move1", string(outcome.Move1)),
		slog.String("move2", string(outcome.Move2)),
		slog.String("result1", string(outcome.Result1)))

	ranking, err := e.ranking.NotifyUpdated(ctx)
	if err != nil {
		return fmt.Errorf("recompute ranking: %w", err)
	}
	e.publisher.SendToAll(model.EventRankingUpdated, ranking)

	return nil
}

// lookup returns the player, nil if missing, or an error for store failures
func (e *Engine) lookup(ctx context.Context, playerID model.PlayerID) (*model.PlayerState, error) {
	player, err := e.registry.Get(ctx, playerID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reload player %s: %w", playerID, err)
	}
	return player, nil
}

// Resolve computes the outcome of first (player 1) against second (player 2)
func Resolve(first, second model.PendingMove, awards Awards) model.MatchOutcome {
	result1 := first.Move.Versus(second.Move)
	result2 := second.Move.Versus(first.Move)

	return model.MatchOutcome{
		Player1: first.PlayerID,
		Player2: second.PlayerID,
		Move1:   first.Move,
		Move2:   second.Move,
		Result1: result1,
		Result2: result2,
		Delta1:  awards.For(result1),
		Delta2:  awards.For(result2),
	}
}
