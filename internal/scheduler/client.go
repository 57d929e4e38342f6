package scheduler

import (
	"fmt"

	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// PeriodicScheduler enqueues the booking expiry task on a cron spec.
type PeriodicScheduler struct {
	scheduler *asynq.Scheduler
	entryID   string
}

func NewPeriodicScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*PeriodicScheduler, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	spec := cfg.GetBookingExpiryCron()
	if spec == "" {
		spec = "@hourly"
	}

	task, err := NewExpireStaleBookingsTask(ExpireStaleBookingsPayload{})
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Warn("failed to enqueue periodic task", "task", TaskExpireStaleBookings, "error", err)
				return
			}
			log.Debug("periodic task enqueued", "task", info.Type, "id", info.ID)
		},
	})

	entryID, err := s.Register(spec, task, asynq.Queue(queueName(cfg)))
	if err != nil {
		return nil, fmt.Errorf("register %s on %q: %w", TaskExpireStaleBookings, spec, err)
	}

	return &PeriodicScheduler{scheduler: s, entryID: entryID}, nil
}

// Start runs the scheduler in the background.
func (p *PeriodicScheduler) Start() error {
	return p.scheduler.Start()
}

func (p *PeriodicScheduler) Shutdown() {
	p.scheduler.Shutdown()
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	clientOpt := asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Username: opt.Username,
		Password: opt.Password,
		DB:       opt.DB,
	}
	if opt.TLSConfig != nil {
		clientOpt.TLSConfig = opt.TLSConfig.Clone()
	}
	return clientOpt, nil
}
