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

	"github.com/Dosada05/league-ledger/config"
	"github.com/Dosada05/league-ledger/db"
	"github.com/Dosada05/league-ledger/handlers"
	"github.com/Dosada05/league-ledger/live"
	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
	api "github.com/Dosada05/league-ledger/routes"
	"github.com/Dosada05/league-ledger/services"
	"github.com/Dosada05/league-ledger/storage"
	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("team_a", cfg.Teams[0]),
		slog.String("team_b", cfg.Teams[1]))

	defaultScope, err := models.NewStorageScope(cfg.DefaultSeason)
	if err != nil {
		logger.Error("invalid DEFAULT_SEASON", slog.Any("error", err))
		os.Exit(1)
	}

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
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

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.EnsureSchema(schemaCtx, dbConn, defaultScope, cfg.Teams[:])
	cancelSchema()
	if err != nil {
		logger.Error("failed to prepare schema", slog.String("scope", defaultScope.String()), slog.Any("error", err))
		os.Exit(1)
	}

	clk := clock.New()

	// Архив удалённых матчей (Cloudflare R2), если настроен
	var archiver services.MatchArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewMatchArchiver(uploader, clk)
		logger.Info("match archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	// Инициализация репозиториев
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txRepo := repositories.NewPostgresTransactionRepository(dbConn)
	financeRepo := repositories.NewPostgresFinanceRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	awardRepo := repositories.NewPostgresAwardRepository(dbConn)
	banRepo := repositories.NewPostgresBanRepository(dbConn)

	// Инициализация сервисов
	statsService := services.NewStatsService(playerRepo, awardRepo, logger)
	reversalService := services.NewReversalService(matchRepo, txRepo, financeRepo, statsService, archiver, wsHub, logger)
	settlementService := services.NewSettlementService(
		matchRepo,
		txRepo,
		financeRepo,
		banRepo,
		statsService,
		reversalService,
		wsHub,
		clk,
		cfg.Teams,
		logger,
	)
	matchService := services.NewMatchService(matchRepo, txRepo)
	leagueService := services.NewLeagueService(financeRepo, txRepo, playerRepo, awardRepo, cfg.Teams)
	rosterService := services.NewRosterService(playerRepo, banRepo, cfg.Teams, logger)
	dashboardService := services.NewDashboardService(matchRepo, financeRepo, txRepo, playerRepo, banRepo)
	seasonService := services.NewSeasonService(func(ctx context.Context, scope models.StorageScope, teams []string) error {
		return db.EnsureSchema(ctx, dbConn, scope, teams)
	}, financeRepo, cfg.Teams, logger)
	authService := services.NewAuthService(cfg.AdminPasswordHash)
	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, match changes are disabled")
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey, clk),
		Match:     handlers.NewMatchHandler(settlementService, reversalService, matchService),
		League:    handlers.NewLeagueHandler(leagueService, seasonService),
		Roster:    handlers.NewRosterHandler(rosterService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		WebSocket: handlers.NewWebSocketHandler(wsHub),
	}, cfg.JWTSecretKey, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
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
