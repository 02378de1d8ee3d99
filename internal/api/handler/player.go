package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/ranking"
	"github.com/mcoot/rpsgame-go/internal/services/registry"
)

// PlayerHandler handles registry and ranking reads
type PlayerHandler struct {
	registry *registry.Service
	ranking  *ranking.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry *registry.Service, ranking *ranking.Service) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		ranking:  ranking,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.GetAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.registry.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Ranking handles GET /api/v1/ranking
func (h *PlayerHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ranking.GetRanking(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}
