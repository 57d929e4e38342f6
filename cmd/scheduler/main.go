package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/notification"
	"tourism_portal_backend/internal/scheduler"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/db"
	"tourism_portal_backend/platform/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "cron", cfg.GetBookingExpiryCron())

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	st := store.NewMongo(database)

	eventBus := events.NewInMemoryBus(log)
	notification.New(nil, log).RegisterHandlers(eventBus)
	defer eventBus.Wait()

	expirer := scheduler.NewBookingExpirer(st.Bookings, eventBus, log)

	periodic, err := scheduler.NewPeriodicScheduler(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}
	if err := periodic.Start(); err != nil {
		log.Error("failed to start periodic scheduler", "error", err)
		panic("failed to start periodic scheduler: " + err.Error())
	}
	defer periodic.Shutdown()

	worker, err := scheduler.NewWorker(cfg, expirer, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
