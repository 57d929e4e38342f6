package scheduler

import (
	"context"

	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Expirer is the job the worker runs for TaskExpireStaleBookings.
type Expirer interface {
	Expire(ctx context.Context, before string) (int64, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	expirer Expirer
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, expirer Expirer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:  server,
		mux:     asynq.NewServeMux(),
		expirer: expirer,
		log:     log,
	}
	w.mux.HandleFunc(TaskExpireStaleBookings, w.handleExpireStaleBookings)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleExpireStaleBookings(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExpireStaleBookingsPayload(task)
	if err != nil {
		return err
	}

	_, err = w.expirer.Expire(ctx, payload.Before)
	return err
}
