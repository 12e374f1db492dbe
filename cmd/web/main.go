package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rentcar/internal/app"
	"rentcar/internal/config"
	"rentcar/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	a, err := app.New(cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise web app")
	}
	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("web app stopped with error")
	}
}
