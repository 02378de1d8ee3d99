package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/gateway"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/realtime"
)

// GameHandler serves the game gateway and its description
type GameHandler struct {
	transport *gateway.Transport
	hub       *realtime.Hub
	logger    *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(transport *gateway.Transport, hub *realtime.Hub, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		transport: transport,
		hub:       hub,
		logger:    logger.With(slog.String("component", "game-handler")),
	}
}

// WebSocket handles GET /api/v1/game/rps/ws
func (h *GameHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	h.transport.ServeHTTP(w, r)
}

// Events handles GET /api/v1/game/rps/events. Anonymous subscribers see
// broadcasts; authenticated ones also get their own round results.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	var playerID model.PlayerID
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		playerID = identity.PlayerID
	}

	// Streams outlive the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", slog.Any("error", err))
	}

	realtime.ServeSSE(w, r, h.hub, realtime.NewClient(uuid.NewString(), playerID))
}

// HubInfo handles GET /api/v1/game/rps/hub/info
func (h *GameHandler) HubInfo(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, hubInfo)
}

var hubInfo = response.HubInfo{
	WebsocketURL:           "/api/v1/game/rps/ws",
	EventsURL:              "/api/v1/game/rps/events",
	RequiresAuthentication: true,
	ClientActions: []response.HubAction{
		{
			Name:        gateway.ActionJoin,
			Description: "Join the game; requires a bearer token",
			Parameters: []response.HubParameter{
				{Name: "display_name", Type: "string", Description: "Name shown to other players", Required: false},
			},
		},
		{
			Name:        gateway.ActionPlay,
			Description: "Queue a move for the next match",
			Parameters: []response.HubParameter{
				{Name: "move", Type: "string", Description: "The move to play: 'rock', 'paper', or 'scissors'", Required: true},
			},
		},
		{
			Name:        gateway.ActionGetRanking,
			Description: "Get the current player ranking",
			Parameters:  []response.HubParameter{},
		},
	},
	ServerEvents: []response.HubEvent{
		{Name: string(model.EventPlayerJoined), Description: "A player joined the game", Payload: "player object"},
		{Name: string(model.EventPlayerLeft), Description: "A player disconnected", Payload: "player id"},
		{Name: string(model.EventMoveRegistered), Description: "Your move was queued", Payload: "move and timestamp"},
		{Name: string(model.EventRoundResult), Description: "A match you played was resolved", Payload: "round result object"},
		{Name: string(model.EventRankingUpdated), Description: "The ranking changed or was requested", Payload: "array of ranking entries"},
		{Name: string(model.EventError), Description: "An action was rejected", Payload: "code and message"},
	},
	ErrorCodes: []string{
		gateway.CodeInvalidMove,
		gateway.CodeUnauthorized,
		gateway.CodeNotJoined,
		gateway.CodeEngineFailure,
		gateway.CodeInvalidRequest,
		gateway.CodeInternalError,
	},
}
