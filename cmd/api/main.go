package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/macxnet80/tigube-approval-service/internal/api/http"
	"github.com/macxnet80/tigube-approval-service/internal/api/http/handlers"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
	"github.com/macxnet80/tigube-approval-service/internal/config"
	"github.com/macxnet80/tigube-approval-service/internal/events"
	"github.com/macxnet80/tigube-approval-service/internal/observability"
	"github.com/macxnet80/tigube-approval-service/internal/persistence"
	"github.com/macxnet80/tigube-approval-service/internal/repository"
	"github.com/macxnet80/tigube-approval-service/internal/service"
	"github.com/macxnet80/tigube-approval-service/internal/storage"
	"github.com/macxnet80/tigube-approval-service/internal/worker"
)

// bodyLimit leaves room for an identity document plus several
// certificates per multipart submission. Per-file size limits are
// enforced by the verification service.
const bodyLimit = 64 << 20

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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool, logger)
	historyRepo := repository.NewHistoryRepository(pool)

	statsCache := persistence.NewStatsCache(redis, cfg.Redis.StatsTTL(), logger)
	store := storage.NewBucketClient(cfg.Storage, logger)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		AdminRepo:   adminRepo,
		ProfileRepo: profileRepo,
	})
	profileService := service.NewProfileService(userRepo, profileRepo)
	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		UserRepo:    userRepo,
		Validator:   profileService,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Cache:       statsCache,
	})
	verificationService := service.NewVerificationService(service.VerificationDependencies{
		VerificationRepo: verificationRepo,
		UserRepo:         userRepo,
		HistoryRepo:      historyRepo,
		Store:            store,
		Bucket:           cfg.Storage.CertificatesBucket,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, adminRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: bodyLimit,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(pg, redis),
		Users:              handlers.NewUsersHandler(authService),
		Profile:            handlers.NewProfileHandler(profileService, userRepo),
		Approvals:          handlers.NewApprovalsHandler(approvalService),
		Verifications:      handlers.NewVerificationsHandler(verificationService),
		AdminApprovals:     handlers.NewAdminApprovalsHandler(approvalService),
		AdminVerifications: handlers.NewAdminVerificationsHandler(verificationService),
		AuthMiddleware:     authMiddleware,
	})

	worker.StartNotificationWorker(notificationService)

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
