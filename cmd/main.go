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

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Dosada05/knockout-cup/brackets"
	"github.com/Dosada05/knockout-cup/config"
	"github.com/Dosada05/knockout-cup/db"
	"github.com/Dosada05/knockout-cup/handlers"
	"github.com/Dosada05/knockout-cup/logger"
	"github.com/Dosada05/knockout-cup/repositories"
	api "github.com/Dosada05/knockout-cup/routes"
	"github.com/Dosada05/knockout-cup/services"
	"github.com/Dosada05/knockout-cup/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	log.Info("configuration loaded", zap.Int("port", cfg.ServerPort), zap.String("log_level", cfg.Logger.Level))

	if err := run(cfg, log); err != nil {
		log.Error("application stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("application exited")
}

func run(cfg *config.Config, log *zap.Logger) error {
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Хранилище турниров: Postgres, если задан DATABASE_URL, иначе память процесса
	var tournamentRepo repositories.TournamentRepository
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			} else {
				log.Info("database connection closed")
			}
		}()
		log.Info("database connection established")

		if err := db.Migrate(dbConn); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("database migrations applied")
		tournamentRepo = repositories.NewPostgresTournamentRepository(dbConn)
	} else {
		log.Warn("DATABASE_URL is not set, tournaments are kept in memory only")
		tournamentRepo = repositories.NewMemoryTournamentRepository()
	}

	// Архив завершённых турниров (Cloudflare R2), опционально
	var archive *storage.SnapshotArchive
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(appCtx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archive = storage.NewSnapshotArchive(uploader)
		log.Info("Cloudflare R2 archive initialized", zap.String("bucket", cfg.R2BucketName))
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(log.Named("hub"))
	go wsHub.Run(appCtx)
	log.Info("WebSocket Hub started")

	tournamentService := services.NewTournamentService(tournamentRepo, wsHub, archive, log.Named("tournaments"))

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(cfg.AdminPasswordHash, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, log.Named("ws"))

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      cfg.JWTSecretKey,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         log.Named("http"),
		},
		authHandler,
		tournamentHandler,
		webSocketHandler,
	)
	log.Info("Routes configured")

	errorLog, err := zap.NewStdLogAt(log, zap.ErrorLevel)
	if err != nil {
		return fmt.Errorf("failed to build server error log: %w", err)
	}

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     errorLog,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		log.Info("server stopped gracefully")
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		log.Info("shutting down server", zap.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("failed to force close server", zap.Error(closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server shutdown complete")
	}

	// Закрываем websocket соединения.
	stopApp()
	return nil
}
