package factory

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/rpsgame-go/internal/dependencies/clock"
	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/gateway"
	"github.com/mcoot/rpsgame-go/internal/realtime"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
	"github.com/mcoot/rpsgame-go/internal/services/match"
	"github.com/mcoot/rpsgame-go/internal/services/ranking"
	"github.com/mcoot/rpsgame-go/internal/services/registry"
	"github.com/mcoot/rpsgame-go/internal/storage"
	"github.com/mcoot/rpsgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsgame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RegistryService *registry.Service
	RankingService  *ranking.Service
	MatchEngine     *match.Engine
	AuthService     *auth.Service
	BotService      *bot.Service

	// Realtime delivery
	Hub       *realtime.Hub
	Publisher *realtime.Publisher

	// Session gateway
	Gateway   *gateway.Gateway
	Transport *gateway.Transport

	startOnce sync.Once
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Awards holds the score per match result (optional)
	// If zero value, defaults to match.DefaultAwards()
	Awards match.Awards
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired.
// Call Start before serving connections.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use defaults for anything not provided
	authCfg := cfg.AuthConfig
	if authCfg.Secret == "" {
		authCfg = auth.DefaultConfig()
	}
	awards := cfg.Awards
	if awards == (match.Awards{}) {
		awards = match.DefaultAwards()
	}

	return newWithDependencies(store, clk, rnd, authCfg, awards, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	awards match.Awards,
	logger *slog.Logger,
) *App {
	// Create services
	registryService := registry.New(store, clk, logger)
	rankingService := ranking.New(registryService)
	hub := realtime.NewHub(logger)
	publisher := realtime.NewPublisher(hub, logger)
	engine := match.NewEngine(registryService, rankingService, publisher, clk, awards, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)
	botService := bot.NewService(registryService, engine, bot.DefaultStrategies(rnd), logger)
	gw := gateway.New(registryService, rankingService, engine, publisher, logger)
	transport := gateway.NewTransport(gw, hub, authService, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		RegistryService: registryService,
		RankingService:  rankingService,
		MatchEngine:     engine,
		AuthService:     authService,
		BotService:      botService,
		Hub:             hub,
		Publisher:       publisher,
		Gateway:         gw,
		Transport:       transport,
	}
}

// Start runs the realtime hub in the background. Safe to call more than once.
func (a *App) Start() {
	a.startOnce.Do(func() {
		go a.Hub.Run()
	})
}

// Close stops the hub and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
