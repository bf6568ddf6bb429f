package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/partydeck/mafia-server/internal/api"
	"github.com/partydeck/mafia-server/internal/config"
	"github.com/partydeck/mafia-server/internal/factory"
	redisstorage "github.com/partydeck/mafia-server/internal/storage/redis"
	"github.com/partydeck/mafia-server/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Build factory config
	factoryCfg := factory.Config{
		Logger:         logger,
		AdminTokenHash: cfg.AdminTokenHash,
		StorageType:    cfg.StorageType,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		factoryCfg.RedisConfig = &redisstorage.Config{
			URL:          cfg.RedisURL,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
			RoomTTL:      cfg.RoomTTL,
		}
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start the message loop
	go app.Router.Run(ctx)

	// Wire the HTTP surface
	wsHandler := ws.NewHandler(app.Router, logger)
	httpRouter := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Registry:  app.Registry,
		Rooms:     app.Rooms,
		Ledger:    app.Ledger,
		WebSocket: wsHandler,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(httpRouter, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
