package scheduler

import (
	"context"
	"fmt"

	"rental_portal_backend/internal/creditscore"
	"rental_portal_backend/platform/apperr"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"
	"rental_portal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	service *creditscore.Service
	scan    *PopulationScan
	val     *validator.Validator
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, service *creditscore.Service, scan *PopulationScan, val *validator.Validator, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		service: service,
		scan:    scan,
		val:     val,
		log:     log,
	}

	mux.HandleFunc(TaskScoreRefresh, w.handleScoreRefresh)
	mux.HandleFunc(TaskScoreScanAll, w.handleScanAll)

	return w, nil
}

func (w *Worker) handleScoreRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScoreRefreshPayload(task)
	if err != nil {
		return fmt.Errorf("malformed payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.val.Struct(payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := w.service.Refresh(ctx, userID); err != nil {
		w.log.JobFailed(TaskScoreRefresh, payload.UserID, err)
		if !apperr.IsRetryable(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	return nil
}

func (w *Worker) handleScanAll(ctx context.Context, _ *asynq.Task) error {
	return w.scan.Run(ctx)
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
