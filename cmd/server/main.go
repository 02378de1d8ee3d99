package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/rpsgame-go/internal/api"
	"github.com/mcoot/rpsgame-go/internal/factory"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	envCfg, err := loadEnv()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Build factory config from environment
	cfg, err := envCfg.factoryConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg.Logger = logger
	if envCfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, using the development signing key")
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}
	app.Start()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Clock:           app.Clock,
		AuthService:     app.AuthService,
		BotService:      app.BotService,
		RegistryService: app.RegistryService,
		RankingService:  app.RankingService,
		Transport:       app.Transport,
		Hub:             app.Hub,
	})

	// Create server
	server := api.NewServer(router, envCfg.serverConfig(), logger)
	server.OnShutdown(app.Hub.Close)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", envCfg.StorageType))

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to release resources", slog.Any("error", err))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
