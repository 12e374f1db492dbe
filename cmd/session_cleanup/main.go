package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rentcar/internal/config"
	"rentcar/internal/database"
	"rentcar/internal/pkg/logger"
	"rentcar/internal/session"
)

// Prunes persisted sessions past SESSION_RETENTION once and exits. The web
// app does the same on its sweep schedule; this is for cron hosts.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.SessionDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	p := session.NewGormPersister(db)
	if err := p.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	n, err := p.DeleteOlderThan(context.Background(), time.Now().Add(-cfg.SessionRetention))
	if err != nil {
		log.Fatal().Err(err).Msg("session cleanup failed")
	}
	log.Info().Int64("sessions", n).Msg("session cleanup completed")
}
