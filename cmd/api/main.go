package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/recipez/backend/config"
	"github.com/recipez/backend/internal/database"
	"github.com/recipez/backend/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.Gorm, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		// Listing cache is an optimization, not a dependency
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		rdb = nil
	}

	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Warn().Err(err).Msg("S3 unavailable, photo upload disabled")
		s3cfg = nil
	}

	srv := server.New(cfg, db, rdb, s3cfg)

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerHost+":"+cfg.ServerPort).Msg("Starting server")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal")
	}

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
