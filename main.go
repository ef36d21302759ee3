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

	"github.com/isdelr/daily-diet-be/internal/api"
	"github.com/isdelr/daily-diet-be/internal/auth"
	"github.com/isdelr/daily-diet-be/internal/config"
	"github.com/isdelr/daily-diet-be/internal/database"
	"github.com/isdelr/daily-diet-be/internal/logger"
	"github.com/isdelr/daily-diet-be/internal/metrics"
	"github.com/isdelr/daily-diet-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	if cfg.IsProduction() && cfg.SessionSecret == "dev_secret_change_me" {
		log.Fatal().Msg("SESSION_SECRET must be set in production")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	mealService := services.NewMealService(db)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionMaxAge, cfg.IsProduction())

	// Set up router
	router := api.NewRouter(api.Deps{
		Users:          userService,
		Meals:          mealService,
		Sessions:       sessions,
		Metrics:        metrics.New(),
		DB:             db,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
