package scheduler

import (
	"context"
	"fmt"

	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Cron registers the nightly full-population scan with the asynq scheduler.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewCron(cfg config.SchedulerConfig, log *logger.Logger) (*Cron, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	spec := cfg.GetScanCronSpec()
	if spec == "" {
		spec = "0 2 * * *"
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(spec, NewScoreScanAllTask(),
		asynq.Queue(queue), asynq.MaxRetry(0), asynq.Timeout(scanTaskTimeout)); err != nil {
		return nil, fmt.Errorf("register scan task: %w", err)
	}

	return &Cron{scheduler: scheduler, log: log}, nil
}

func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		c.scheduler.Shutdown()
	}()

	if err := c.scheduler.Run(); err != nil {
		c.log.Error("cron scheduler stopped", "error", err)
	}
}
