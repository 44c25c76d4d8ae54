package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marl-games/game-server/api"
	"github.com/marl-games/game-server/config"
	chessgame "github.com/marl-games/game-server/game/chess"
	"github.com/marl-games/game-server/game/connectfour"
	"github.com/marl-games/game-server/policy"
	"github.com/marl-games/game-server/service"
	"github.com/marl-games/game-server/service/i"
	"github.com/rs/zerolog"
)

// Global variables for dependencies
var (
	appLogger          zerolog.Logger
	gameSessionManager *service.GameSessionManager
	httpServer         *http.Server
)

func initLogger() {
	level, err := zerolog.ParseLevel(config.Envs.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().Timestamp().Logger()
}

func initGameSessionManager() {
	manager, err := service.NewGameSessionManager(&service.Config{
		EnvFactories: map[string]service.EnvFactory{
			"connect_four": func() i.Environment { return connectfour.New() },
			"chess":        func() i.Environment { return chessgame.New() },
		},
		Policies: policy.NewLoader(config.Envs.CheckpointDir),
		Logger:   appLogger,
	})
	if err != nil {
		appLogger.Error().Err(err).Msg("creating game session manager")
		os.Exit(1)
	}
	gameSessionManager = manager
	appLogger.Info().Msg("Game Session Manager initialized")
}

func initHTTPServer() {
	server := api.NewServer(gameSessionManager, appLogger)
	httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Envs.HTTPHost, config.Envs.HTTPPort),
		Handler: server.Handler(),
	}
	appLogger.Info().Msg("HTTP server initialized")
}

func main() {
	initLogger()
	initGameSessionManager()
	initHTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("shutting down HTTP server")
		}
		gameSessionManager.StopAll()
	}()

	appLogger.Info().Str("addr", httpServer.Addr).Msg("serving game API")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Error().Err(err).Msg("serving HTTP")
		os.Exit(1)
	}
}
