package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsgame-go/internal/api/handler"
	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/dependencies/clock"
	"github.com/mcoot/rpsgame-go/internal/gateway"
	"github.com/mcoot/rpsgame-go/internal/realtime"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
	"github.com/mcoot/rpsgame-go/internal/services/ranking"
	"github.com/mcoot/rpsgame-go/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           clock.Clock
	AuthService     *auth.Service
	BotService      *bot.Service
	RegistryService *registry.Service
	RankingService  *ranking.Service
	Transport       *gateway.Transport
	Hub             *realtime.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.RegistryService, cfg.RankingService)
	gameHandler := handler.NewGameHandler(cfg.Transport, cfg.Hub, cfg.Logger)
	botHandler := handler.NewBotHandler(cfg.BotService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for registering/logging in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Player routes (all require auth)
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("", playerHandler.List).Methods(http.MethodGet)
	players.HandleFunc("/{id}", playerHandler.Get).Methods(http.MethodGet)

	// Ranking is public
	api.HandleFunc("/ranking", playerHandler.Ranking).Methods(http.MethodGet)

	// Game routes; the websocket resolves its own token
	game := api.PathPrefix("/game/rps").Subrouter()
	game.HandleFunc("/hub/info", gameHandler.HubInfo).Methods(http.MethodGet)
	game.HandleFunc("/ws", gameHandler.WebSocket).Methods(http.MethodGet)
	game.Handle("/events", optionalAuthMiddleware(http.HandlerFunc(gameHandler.Events))).Methods(http.MethodGet)
	game.HandleFunc("/bot/strategies", botHandler.Strategies).Methods(http.MethodGet)
	game.Handle("/bot", authMiddleware(http.HandlerFunc(botHandler.Challenge))).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.Clock)).Methods(http.MethodGet)

	return r
}

func healthHandler(clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status: "ok",
			Time:   clk.Now(),
		})
	}
}
