package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rentcar/internal/config"
	"rentcar/internal/database"
	"rentcar/internal/devapi"
	"rentcar/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadDevAPIConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	router, err := devapi.NewRouter(ctx, db, devapi.Options{
		JWTSecret:  cfg.JWTSecret,
		JWTTTL:     cfg.JWTAccessTTL,
		VerifyCode: cfg.VerifyCode,
		Seed:       cfg.Seed,
		SeedAdmin:  devapi.SeedOptions{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise devapi")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 20 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to stop devapi")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("devapi listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("devapi stopped with error")
	}
	log.Info().Msg("devapi stopped gracefully")
}
