package scheduler

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"

	"rental_portal_backend/internal/records/repository"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// UserPager pages through the user population.
type UserPager interface {
	ListUserIDs(ctx context.Context, skip, take int) ([]uuid.UUID, error)
}

// PopulationScan walks the whole user population and enqueues one score
// refresh task per user. Only one scan runs at a time per process; an
// overlapping trigger is logged and dropped.
type PopulationScan struct {
	pager     UserPager
	enqueuer  RefreshEnqueuer
	log       *logger.Logger
	batchSize int
	limiter   *rate.Limiter
	running   atomic.Bool
}

func NewPopulationScan(pager UserPager, enqueuer RefreshEnqueuer, cfg config.SchedulerConfig, log *logger.Logger) *PopulationScan {
	batchSize := cfg.GetScanBatchSize()
	if batchSize < 1 {
		batchSize = 1500
	}

	perSecond := cfg.GetScanEnqueueRate()
	if perSecond <= 0 {
		perSecond = 200
	}

	return &PopulationScan{
		pager:     pager,
		enqueuer:  enqueuer,
		log:       log,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), batchSize),
	}
}

// Run performs one full scan. A failed enqueue skips that user rather than
// aborting the scan; the user is covered again on the next tick.
func (s *PopulationScan) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("population scan already running, skipping trigger")
		return nil
	}
	defer s.running.Store(false)

	var scanned, enqueued, failed int
	skip := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ids, err := s.pager.ListUserIDs(ctx, skip, s.batchSize)
		if err != nil {
			s.log.DatabaseError("list user ids", err)
			return err
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}

			scanned++
			err := s.enqueuer.EnqueueScoreRefresh(ctx, ScoreRefreshPayload{UserID: id.String()})
			if err != nil {
				failed++
				s.log.JobFailed(TaskScoreRefresh, id.String(), err)
				continue
			}
			enqueued++
		}

		if len(ids) < s.batchSize {
			break
		}
		skip += s.batchSize
	}

	s.log.Info("population scan finished",
		"scanned", scanned,
		"enqueued", enqueued,
		"failed", failed,
	)
	return nil
}

var _ UserPager = (*repository.Repository)(nil)
