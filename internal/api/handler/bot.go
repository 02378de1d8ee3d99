package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/rpsgame-go/internal/api/request"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
)

// BotHandler lets players summon a house bot opponent
type BotHandler struct {
	botService *bot.Service
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService *bot.Service) *BotHandler {
	return &BotHandler{
		botService: botService,
	}
}

// Challenge handles POST /api/v1/game/rps/bot
func (h *BotHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	var req request.BotChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Strategy == "" {
		req.Strategy = model.BotStrategyRandom
	}

	challenge, err := h.botService.Challenge(r.Context(), req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.BotChallengeFromModel(req.Strategy, challenge))
}

// Strategies handles GET /api/v1/game/rps/bot/strategies
func (h *BotHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.botService.Strategies())
}
