package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fleet-dashboard/internal/api/http"
	"github.com/spec-kit/fleet-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/fleet-dashboard/internal/appstate"
	"github.com/spec-kit/fleet-dashboard/internal/auth"
	"github.com/spec-kit/fleet-dashboard/internal/config"
	"github.com/spec-kit/fleet-dashboard/internal/events"
	"github.com/spec-kit/fleet-dashboard/internal/observability"
	"github.com/spec-kit/fleet-dashboard/internal/persistence"
	"github.com/spec-kit/fleet-dashboard/internal/repository"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	"github.com/spec-kit/fleet-dashboard/internal/store"
	"github.com/spec-kit/fleet-dashboard/internal/worker"
)

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

	metrics := observability.NewMetrics()
	deps := map[string]handlers.Pinger{}

	var client store.Client
	switch cfg.Store.Backend {
	case config.StoreBackendMongo:
		mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect mongo", zap.Error(err))
		}
		defer mongo.Close(context.Background())
		deps["mongo"] = mongo
		client = store.NewMongo(mongo.Database)
	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		deps["postgres"] = pg
		client = store.NewPostgres(pg.Pool)
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		client = store.NewMemory()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	if redis.Enabled() {
		deps["redis"] = redis
		if ttl := cfg.Store.CacheTTL(); ttl > 0 {
			client = store.NewCached(client, redis.Client, ttl, logger)
		}
	}

	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	})
	state := appstate.New(appstate.DefaultCapacity)
	service.NewNotificationService(dispatcher, logger, state).RegisterHandlers()

	repo := repository.NewEntityRepository(repository.Dependencies{
		Client:     client,
		Logger:     logger,
		Metrics:    metrics,
		Dispatcher: dispatcher,
	})

	reconciler := worker.NewReconcileWorker(repo, logger, cfg.Reconcile.QueueSize, cfg.App.RequestTimeout())
	repo.SetReconciler(reconciler)
	reconciler.Start(ctx)

	if err := repo.LoadAll(ctx); err != nil {
		logger.Error("initial load failed; serving with empty collections", zap.Error(err))
	}

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, time.Hour)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set; API is unauthenticated")
	}

	fleet := service.NewFleetService(repo, state, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, repo.Status, metrics),
		Drivers:        handlers.NewDriversHandler(fleet),
		Dispatchers:    handlers.NewDispatchersHandler(fleet),
		Loads:          handlers.NewLoadsHandler(fleet),
		Dashboard:      handlers.NewDashboardHandler(fleet, state),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	reconciler.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
