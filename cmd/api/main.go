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

	"tourism_portal_backend/internal/auth/password"
	"tourism_portal_backend/internal/auth/token"
	"tourism_portal_backend/internal/catalog"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/guides"
	"tourism_portal_backend/internal/host"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/http/router"
	"tourism_portal_backend/internal/identity"
	identityservice "tourism_portal_backend/internal/identity/service"
	"tourism_portal_backend/internal/moderation"
	"tourism_portal_backend/internal/notification"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/internal/tourist"
	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/db"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var (
		client   *mongo.Client
		database *mongo.Database
	)
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		c, d, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		client, database = c, d
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info("database connection established", "database", cfg.GetMongoDatabase())

	if err := db.EnsureIndexes(ctx, database, store.Indexes, log); err != nil {
		log.Error("failed to ensure indexes", "error", err)
		panic("failed to ensure indexes: " + err.Error())
	}

	st := store.NewMongo(database)

	challenges, closeChallenges := initChallengeStore(ctx, cfg, log)
	defer closeChallenges()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()
	tokens := token.NewIssuer(cfg)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.New(nil, log).RegisterHandlers(eventBus)

	identityModule := identity.NewModule(st.Users, password.Hasher{}, tokens, cfg, challenges, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewHealthChecker(client),
		Tokens: tokens,
		Modules: []apphttp.Module{
			identityModule,
			catalog.NewModule(st, log),
			tourist.NewModule(st, eventBus, val, log),
			guides.NewModule(st, eventBus, val, log),
			host.NewModule(st, eventBus, val, log),
			moderation.NewModule(st, eventBus, val, log),
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initChallengeStore keeps admin login challenges in redis when REDIS_URL is
// set, so several API instances share them. Without redis they live in
// process memory.
func initChallengeStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (identityservice.ChallengeStore, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; admin login challenges kept in memory")
		return identityservice.NewMemoryChallengeStore(), func() {}
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}

	rdb := redis.NewClient(opt)
	if err := withRetry(ctx, log, "redis connection", 5, time.Second, func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established")

	return identityservice.NewRedisChallengeStore(rdb), func() { _ = rdb.Close() }
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
