package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/tarujar/kantalakyykka/config"
	"github.com/tarujar/kantalakyykka/db"
	"github.com/tarujar/kantalakyykka/handlers"
	"github.com/tarujar/kantalakyykka/live"
	"github.com/tarujar/kantalakyykka/repositories"
	api "github.com/tarujar/kantalakyykka/routes"
	"github.com/tarujar/kantalakyykka/services"
	"github.com/tarujar/kantalakyykka/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var logoUploader storage.FileUploader
	if cfg.LogoStorageConfigured() {
		logoUploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize logo storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("logo storage initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("logo storage not configured, uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	gameTypeRepo := repositories.NewPostgresGameTypeRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	seriesRepo := repositories.NewPostgresSeriesRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	singleThrowRepo := repositories.NewPostgresSingleThrowRepository(dbConn)
	roundThrowRepo := repositories.NewPostgresRoundThrowRepository(dbConn)
	logger.Info("repositories initialized")

	rules := cfg.Rules()

	gameTypeService := services.NewGameTypeService(gameTypeRepo)
	playerService := services.NewPlayerService(playerRepo)
	seriesService := services.NewSeriesService(seriesRepo, gameTypeRepo)
	registrationService := services.NewRegistrationService(
		registrationRepo,
		seriesRepo,
		gameTypeRepo,
		playerRepo,
		logoUploader,
		logger,
	)
	gameService := services.NewGameService(gameRepo, seriesRepo, registrationRepo)
	scoreSheetService := services.NewScoreSheetService(
		dbConn,
		rules,
		gameRepo,
		seriesRepo,
		gameTypeRepo,
		registrationRepo,
		singleThrowRepo,
		roundThrowRepo,
		wsHub,
		logger,
	)
	logger.Info("services initialized",
		slog.Int("unused_throw_score", rules.UnusedThrowScore),
		slog.Bool("derive_team_scores", rules.DeriveTeamScores))

	gameTypeHandler := handlers.NewGameTypeHandler(gameTypeService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	seriesHandler := handlers.NewSeriesHandler(seriesService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	gameHandler := handlers.NewGameHandler(gameService)
	scoreSheetHandler := handlers.NewScoreSheetHandler(scoreSheetService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, gameService, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		gameTypeHandler,
		playerHandler,
		seriesHandler,
		registrationHandler,
		gameHandler,
		scoreSheetHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
