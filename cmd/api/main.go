package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/file-vault-service/internal/api/http"
	"github.com/spec-kit/file-vault-service/internal/api/http/handlers"
	"github.com/spec-kit/file-vault-service/internal/auth"
	"github.com/spec-kit/file-vault-service/internal/cache"
	"github.com/spec-kit/file-vault-service/internal/config"
	"github.com/spec-kit/file-vault-service/internal/events"
	"github.com/spec-kit/file-vault-service/internal/observability"
	"github.com/spec-kit/file-vault-service/internal/persistence"
	"github.com/spec-kit/file-vault-service/internal/repository"
	"github.com/spec-kit/file-vault-service/internal/service"
	"github.com/spec-kit/file-vault-service/internal/storage"
	"github.com/spec-kit/file-vault-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	blobStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	fileService := service.NewFileService(cfg.Storage, service.FileDependencies{
		FileRepo:   fileRepo,
		Store:      blobStore,
		Cache:      cache.NewFileCache(redis.Client),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Storage.MaxUploadBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(authService)
	filesHandler := handlers.NewFilesHandler(fileService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Files:          filesHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
