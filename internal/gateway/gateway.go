package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Actions a client may send
const (
	ActionJoin       = "join"
	ActionPlay       = "play"
	ActionGetRanking = "get_ranking"
)

// Envelope is a client frame
type Envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type joinPayload struct {
	DisplayName string `json:"display_name"`
}

type playPayload struct {
	Move *string `json:"move"`
}

// Publisher delivers events to connections
type Publisher interface {
	SendToAll(event model.EventName, payload any)
	SendToSession(sessionID string, event model.EventName, payload any)
}

// Registry is the subset of the player registry the gateway uses
type Registry interface {
	EnsureExists(ctx context.Context, playerID model.PlayerID, name string) error
	SetOnlineStatus(ctx context.Context, playerID model.PlayerID, isOnline bool, sessionID string) error
	Get(ctx context.Context, playerID model.PlayerID) (*model.PlayerState, error)
}

// Ranking supplies the leaderboard
type Ranking interface {
	GetRanking(ctx context.Context) ([]model.RankingEntry, error)
}

// Engine accepts moves
type Engine interface {
	Submit(ctx context.Context, playerID model.PlayerID, rawMove string) (model.PendingMove, error)
}

// Gateway handles every client-initiated action and connection teardown
type Gateway struct {
	registry  Registry
	ranking   Ranking
	engine    Engine
	publisher Publisher
	logger    *slog.Logger
}

// New creates a new Gateway
func New(registry Registry, ranking Ranking, engine Engine, publisher Publisher, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry:  registry,
		ranking:   ranking,
		engine:    engine,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "gateway")),
	}
}

// Join registers the caller as a player and marks them online on this
// session. Everyone is told; the caller alone gets the ranking. Name
// precedence is displayName, then the identity's name, then the sentinel.
func (g *Gateway) Join(ctx context.Context, sess *Session, displayName string) error {
	if sess.Identity == nil {
		return model.ErrUnauthenticated
	}
	if sess.State() == StateDisconnected {
		return ErrSessionClosed
	}

	playerID := sess.Identity.PlayerID
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = sess.Identity.Name()
	}

	if err := g.registry.EnsureExists(ctx, playerID, name); err != nil {
		return fmt.Errorf("ensure player: %w", err)
	}
	if err := g.registry.SetOnlineStatus(ctx, playerID, true, sess.ID); err != nil {
		return fmt.Errorf("mark online: %w", err)
	}
	player, err := g.registry.Get(ctx, playerID)
	if err != nil {
		return fmt.Errorf("reload player: %w", err)
	}

	if _, ok := sess.transition(StateJoined); !ok {
		return ErrSessionClosed
	}

	g.logger.Info("player joined",
		slog.String("player_id", string(playerID)),
		slog.String("session_id", sess.ID),
		slog.String("name", player.Name))

	g.publisher.SendToAll(model.EventPlayerJoined, model.PlayerJoinedFromState(player))
	return g.GetRanking(ctx, sess)
}

// Play submits a move for the joined caller and acknowledges it to the
// caller alone. Match results, if the move completed a pair, are already on
// their way when this returns.
func (g *Gateway) Play(ctx context.Context, sess *Session, rawMove string) error {
	if sess.Identity == nil {
		return model.ErrUnauthenticated
	}
	switch sess.State() {
	case StateDisconnected:
		return ErrSessionClosed
	case StateUnauthenticated:
		return model.ErrNotJoined
	}

	pending, err := g.engine.Submit(ctx, sess.Identity.PlayerID, rawMove)
	if errors.Is(err, model.ErrInvalidMove) {
		return err
	}

	// The move is queued even if draining failed
	g.publisher.SendToSession(sess.ID, model.EventMoveRegistered, model.MoveRegisteredPayload{
		Move:      pending.Move,
		Timestamp: pending.SubmittedAt,
	})
	return err
}

// GetRanking sends the current ranking to the caller alone
func (g *Gateway) GetRanking(ctx context.Context, sess *Session) error {
	ranking, err := g.ranking.GetRanking(ctx)
	if err != nil {
		return fmt.Errorf("get ranking: %w", err)
	}
	g.publisher.SendToSession(sess.ID, model.EventRankingUpdated, ranking)
	return nil
}

// Disconnect marks the player offline and tells everyone. It is idempotent
// and never fails; anonymous or never-joined sessions only change state.
func (g *Gateway) Disconnect(ctx context.Context, sess *Session) {
	prev, ok := sess.transition(StateDisconnected)
	if !ok || prev != StateJoined {
		return
	}

	playerID := sess.Identity.PlayerID
	if err := g.registry.SetOnlineStatus(ctx, playerID, false, ""); err != nil {
		g.logger.Error("failed to mark player offline",
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
		return
	}

	if _, err := g.registry.Get(ctx, playerID); err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			g.logger.Error("failed to reload player on disconnect",
				slog.String("player_id", string(playerID)),
				slog.Any("error", err))
		}
		return
	}

	g.logger.Info("player left",
		slog.String("player_id", string(playerID)),
		slog.String("session_id", sess.ID))
	g.publisher.SendToAll(model.EventPlayerLeft, model.PlayerLeftPayload{PlayerID: playerID})
}

// Dispatch decodes one client frame and runs its action. Failures are
// reported to the caller as error frames.
func (g *Gateway) Dispatch(ctx context.Context, sess *Session, frame []byte) {
	if err := g.dispatch(ctx, sess, frame); err != nil {
		payload := toErrorPayload(err)
		if payload.Code == CodeInternalError || payload.Code == CodeEngineFailure {
			g.logger.Error("action failed",
				slog.String("session_id", sess.ID),
				slog.String("player_id", string(sess.PlayerID())),
				slog.Any("error", err))
		} else {
			g.logger.Debug("action rejected",
				slog.String("session_id", sess.ID),
				slog.String("code", payload.Code),
				slog.Any("error", err))
		}
		g.publisher.SendToSession(sess.ID, model.EventError, payload)
	}
}

func (g *Gateway) dispatch(ctx context.Context, sess *Session, frame []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch envelope.Action {
	case ActionJoin:
		var payload joinPayload
		if err := decodeData(envelope.Data, &payload); err != nil {
			return err
		}
		return g.Join(ctx, sess, payload.DisplayName)

	case ActionPlay:
		var payload playPayload
		if err := decodeData(envelope.Data, &payload); err != nil {
			return err
		}
		if payload.Move == nil {
			return fmt.Errorf("%w: missing move", model.ErrInvalidMove)
		}
		return g.Play(ctx, sess, *payload.Move)

	case ActionGetRanking:
		return g.GetRanking(ctx, sess)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Action)
	}
}

// decodeData tolerates an absent data field
func decodeData(data json.RawMessage, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
