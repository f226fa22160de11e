package scheduler

import (
	"context"
	"errors"
	"testing"

	"rental_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type stubConfig struct {
	batchSize int
	rate      float64
	redisURL  string
}

func (c stubConfig) GetRedisURL() string {
	if c.redisURL == "" {
		return "redis://localhost:6379/0"
	}
	return c.redisURL
}
func (c stubConfig) GetRedisTLSInsecure() bool   { return false }
func (c stubConfig) GetAsynqQueueName() string   { return "default" }
func (c stubConfig) GetAsynqConcurrency() int    { return 10 }
func (c stubConfig) GetScanBatchSize() int       { return c.batchSize }
func (c stubConfig) GetScanCronSpec() string     { return "0 2 * * *" }
func (c stubConfig) GetScanEnqueueRate() float64 { return c.rate }

type stubPager struct {
	ids   []uuid.UUID
	calls int
}

func (p *stubPager) ListUserIDs(_ context.Context, skip, take int) ([]uuid.UUID, error) {
	p.calls++
	if skip >= len(p.ids) {
		return nil, nil
	}
	end := skip + take
	if end > len(p.ids) {
		end = len(p.ids)
	}
	return p.ids[skip:end], nil
}

type stubEnqueuer struct {
	enqueued []string
	failFor  map[string]error
}

func (e *stubEnqueuer) EnqueueScoreRefresh(_ context.Context, payload ScoreRefreshPayload) error {
	if err, ok := e.failFor[payload.UserID]; ok {
		return err
	}
	e.enqueued = append(e.enqueued, payload.UserID)
	return nil
}

func userIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestPopulationScanEnqueuesEveryUser(t *testing.T) {
	pager := &stubPager{ids: userIDs(7)}
	enqueuer := &stubEnqueuer{}
	scan := NewPopulationScan(pager, enqueuer, stubConfig{batchSize: 3, rate: 10000}, logger.New("development"))

	if err := scan.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enqueuer.enqueued) != 7 {
		t.Fatalf("expected 7 enqueued tasks, got %d", len(enqueuer.enqueued))
	}
	// 7 users at batch size 3 means three pages; the last is short so no
	// fourth query is issued.
	if pager.calls != 3 {
		t.Fatalf("expected 3 pager calls, got %d", pager.calls)
	}
}

func TestPopulationScanSkipsFailedEnqueues(t *testing.T) {
	ids := userIDs(4)
	pager := &stubPager{ids: ids}
	enqueuer := &stubEnqueuer{
		failFor: map[string]error{ids[1].String(): errors.New("redis down")},
	}
	scan := NewPopulationScan(pager, enqueuer, stubConfig{batchSize: 10, rate: 10000}, logger.New("development"))

	if err := scan.Run(context.Background()); err != nil {
		t.Fatalf("expected scan to survive a failed enqueue, got %v", err)
	}
	if len(enqueuer.enqueued) != 3 {
		t.Fatalf("expected 3 successful enqueues, got %d", len(enqueuer.enqueued))
	}
}

func TestPopulationScanRefusesOverlappingRun(t *testing.T) {
	pager := &stubPager{ids: userIDs(2)}
	enqueuer := &stubEnqueuer{}
	scan := NewPopulationScan(pager, enqueuer, stubConfig{batchSize: 10, rate: 10000}, logger.New("development"))

	scan.running.Store(true)
	if err := scan.Run(context.Background()); err != nil {
		t.Fatalf("expected overlapping trigger to be a no-op, got %v", err)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Fatalf("expected no enqueues from the dropped trigger, got %d", len(enqueuer.enqueued))
	}

	// After the first run releases the guard a new scan proceeds.
	scan.running.Store(false)
	if err := scan.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enqueuer.enqueued) != 2 {
		t.Fatalf("expected 2 enqueues after guard release, got %d", len(enqueuer.enqueued))
	}
}

func TestPopulationScanStopsOnCanceledContext(t *testing.T) {
	pager := &stubPager{ids: userIDs(5)}
	enqueuer := &stubEnqueuer{}
	scan := NewPopulationScan(pager, enqueuer, stubConfig{batchSize: 10, rate: 10000}, logger.New("development"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := scan.Run(ctx); err == nil {
		t.Fatal("expected context error from canceled scan")
	}
	if len(enqueuer.enqueued) != 0 {
		t.Fatalf("expected no enqueues after cancellation, got %d", len(enqueuer.enqueued))
	}
}
