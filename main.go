package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gastrohq/kellner/calls"
	"github.com/gastrohq/kellner/config"
	"github.com/gastrohq/kellner/dialog"
	"github.com/gastrohq/kellner/gemini"
	"github.com/gastrohq/kellner/nlu"
	"github.com/gastrohq/kellner/reply"
	"github.com/gastrohq/kellner/server"
	"github.com/gastrohq/kellner/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "kellner").
		Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}
	defer func() { _ = st.Close() }()

	llm, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create completion client")
	}

	parser := nlu.NewParser(llm, logger)
	replies := reply.NewGenerator(llm, logger)
	orchestrator := dialog.New(parser, replies, st, cfg.AgentPhone, logger)

	registry := calls.NewRegistry(cfg.RedisURL, cfg.RedisPassword, cfg.CallTTL, logger)
	defer registry.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.StartExpiry(ctx)

	srv := server.New(cfg, orchestrator, st, registry, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}
