package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/di"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/worker"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/middleware"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/router"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/server"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/validator"
	"github.com/Hiro-mackay/audio-ingest/pkg/config"
	"github.com/Hiro-mackay/audio-ingest/pkg/logger"
)

func main() {
	// Logger setup
	if err := logger.Setup(logger.DefaultConfig()); err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Seed storage provider descriptor
	if err := container.SeedStorageProvider(ctx); err != nil {
		slog.Error("failed to seed storage provider", "error", err)
		os.Exit(1)
	}

	// Initialize UseCases, Handlers, and Middlewares
	container.InitUploadUseCases()
	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Server.Port
	serverConfig.Debug = cfg.Server.Debug
	// チャンク受信があるためボディ上限は公称チャンクサイズより広くとる
	serverConfig.BodyLimit = "128MB"
	srv := server.NewServer(serverConfig)
	e := srv.Echo()

	// Setup validator and error handler
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Security.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID", middleware.HeaderUserID, middleware.HeaderWorkspaceID},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Setup Router
	router.NewRouter(e, handlers, middlewares).Setup()

	// Start background workers
	workerMgr := worker.NewManager()
	workerMgr.Register(worker.NewHealthCheckJob(func(ctx context.Context) error {
		return container.PgClient.Health(ctx)
	}))
	workerMgr.Register(worker.NewSessionGaugeJob(container.SessionTable.Len))
	workerMgr.Start()

	// Start server
	slog.Info("starting server", "port", cfg.Server.Port)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	workerMgr.Shutdown(10 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.Config().ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
