package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/club-access-service/internal/api/http"
	"github.com/spec-kit/club-access-service/internal/api/http/handlers"
	"github.com/spec-kit/club-access-service/internal/auth"
	"github.com/spec-kit/club-access-service/internal/cache"
	"github.com/spec-kit/club-access-service/internal/config"
	"github.com/spec-kit/club-access-service/internal/events"
	"github.com/spec-kit/club-access-service/internal/observability"
	"github.com/spec-kit/club-access-service/internal/persistence"
	"github.com/spec-kit/club-access-service/internal/repository"
	"github.com/spec-kit/club-access-service/internal/service"
	"github.com/spec-kit/club-access-service/internal/unifi"
	"github.com/spec-kit/club-access-service/internal/worker"
)

const redisKeyPrefix = "club:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("postgres is required for members, rooms and the audit log")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	checks := map[string]handlers.Pinger{"postgres": pg}

	var store cache.Store
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		memory := cache.NewMemoryStore()
		store = memory
		checks["cache"] = memory
		logger.Info("using in-process cache; pending sessions are not shared between instances")
	default:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		store = cache.NewRedisStore(redis.Client, redisKeyPrefix)
		checks["redis"] = redis
	}

	metrics := observability.NewMetrics()
	directory := unifi.NewClient(cfg.Unifi, logger, metrics)
	if cfg.Unifi.Token == "" {
		logger.Warn("UNIFI_ACCESS_TOKEN not set; directory calls will be rejected")
	}

	memberRepo := repository.NewMemberRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	debugLogRepo := repository.NewDebugLogRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, debugLogRepo, logger))

	sessionCache := cache.NewSessionCache(store, cfg.Cache.SessionTTL())
	deviceService := service.NewDeviceService(service.DeviceDependencies{
		Directory: directory,
		Store:     store,
		RoomRepo:  roomRepo,
		Sessions:  sessionCache,
		TTL:       cfg.Cache.DeviceTTL(),
		Logger:    logger,
	})
	sessionService := service.NewSessionService(service.SessionDependencies{
		Directory:     directory,
		Sessions:      sessionCache,
		MemberRepo:    memberRepo,
		DebugLogRepo:  debugLogRepo,
		Dispatcher:    dispatcher,
		DefaultReader: cfg.Unifi.DefaultReaderID,
		Logger:        logger,
	})
	roomService := service.NewRoomService(roomRepo, deviceService)
	authService := service.NewAuthService(cfg.Auth, operatorRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		RFID:           handlers.NewRFIDHandler(sessionService),
		Devices:        handlers.NewDeviceHandler(deviceService),
		Rooms:          handlers.NewRoomHandler(roomService),
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
