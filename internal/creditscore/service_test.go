package creditscore

import (
	"context"
	"sort"
	"testing"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/records/repository"
	"rental_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type stubGateway struct {
	tenancies    []repository.Tenancy
	transactions []repository.Transaction
	messages     []repository.Message
	requests     []repository.MaintenanceRequest
	inspections  []repository.Inspection
	breaches     []repository.LeaseBreach
	renewals     []repository.LeaseRenewal

	upserted *domain.ScoreRecord
	stored   *domain.ScoreRecord
}

func (s *stubGateway) ListTransactions(_ context.Context, _ uuid.UUID, filter repository.TransactionFilter) ([]repository.Transaction, error) {
	matched := make([]repository.Transaction, 0)
	for _, tx := range s.transactions {
		if len(filter.References) > 0 && !contains(filter.References, tx.Reference) {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, tx.Status) {
			continue
		}
		if len(filter.Types) > 0 && !contains(filter.Types, tx.Type) {
			continue
		}
		if filter.Since != nil && tx.CreatedAt.Before(*filter.Since) {
			continue
		}
		matched = append(matched, tx)
	}
	// Newest first, matching the pgx repository's ordering.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *stubGateway) ListTenancies(context.Context, uuid.UUID) ([]repository.Tenancy, error) {
	return s.tenancies, nil
}

func (s *stubGateway) ListMessages(context.Context, uuid.UUID, time.Time) ([]repository.Message, error) {
	return s.messages, nil
}

func (s *stubGateway) ListMaintenanceRequests(context.Context, []uuid.UUID) ([]repository.MaintenanceRequest, error) {
	return s.requests, nil
}

func (s *stubGateway) ListInspections(context.Context, []uuid.UUID) ([]repository.Inspection, error) {
	return s.inspections, nil
}

func (s *stubGateway) ListLeaseBreaches(context.Context, []uuid.UUID) ([]repository.LeaseBreach, error) {
	return s.breaches, nil
}

func (s *stubGateway) ListAcceptedRenewals(context.Context, []uuid.UUID) ([]repository.LeaseRenewal, error) {
	return s.renewals, nil
}

func (s *stubGateway) UpsertScoreRecord(_ context.Context, record domain.ScoreRecord) error {
	s.upserted = &record
	return nil
}

func (s *stubGateway) GetScoreRecord(context.Context, uuid.UUID) (domain.ScoreRecord, error) {
	if s.stored == nil {
		return domain.ScoreRecord{}, repository.ErrNotFound
	}
	return *s.stored, nil
}

func (s *stubGateway) ListUserIDs(context.Context, int, int) ([]uuid.UUID, error) {
	return nil, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

type stubScoringConfig struct{ threshold float64 }

func (c stubScoringConfig) GetDebtThreshold() float64 { return c.threshold }

func newTestService(gw *stubGateway) *Service {
	log := logger.New("development")
	return NewService(gw, events.NewInMemoryBus(log), log, stubScoringConfig{threshold: 1000})
}

// reliableTenant builds a gateway with a long clean record: a completed
// two year lease followed by a current lease, rent always paid on the
// monthly due date.
func reliableTenant(userID uuid.UUID) *stubGateway {
	now := time.Now().UTC()
	propertyID := uuid.New()

	oldStart := now.AddDate(-3, 0, 0)
	oldEnd := now.AddDate(-1, 0, 0)
	currentStart := now.AddDate(-1, 0, 0)

	gw := &stubGateway{
		tenancies: []repository.Tenancy{
			{
				ID:             uuid.New(),
				UserID:         userID,
				PropertyID:     &propertyID,
				LeaseStartDate: &currentStart,
				IsCurrentLease: true,
				RentAmount:     1200,
				PayFrequency:   "MONTHLY",
				HasGuarantor:   true,
			},
			{
				ID:               uuid.New(),
				UserID:           userID,
				PropertyID:       &propertyID,
				LeaseStartDate:   &oldStart,
				LeaseEndDate:     &oldEnd,
				MoveOutDate:      &oldEnd,
				OnTimeRentStatus: true,
				RentAmount:       1100,
				PayFrequency:     "MONTHLY",
			},
		},
	}

	gateway := "stripe"
	payment := func(amount float64, at time.Time) repository.Transaction {
		return repository.Transaction{
			ID:             uuid.New(),
			UserID:         userID,
			PropertyID:     &propertyID,
			Amount:         amount,
			Type:           repository.TypeDebit,
			Reference:      repository.RefRentPayment,
			Status:         repository.StatusCompleted,
			PaymentGateway: &gateway,
			CreatedAt:      at,
		}
	}

	// One payment exactly on each due date of each lease.
	for due := oldStart.Add(30 * 24 * time.Hour); !due.After(oldEnd); due = due.Add(30 * 24 * time.Hour) {
		gw.transactions = append(gw.transactions, payment(1100, due))
	}
	for due := currentStart.Add(30 * 24 * time.Hour); !due.After(now); due = due.Add(30 * 24 * time.Hour) {
		gw.transactions = append(gw.transactions, payment(1200, due))
	}

	return gw
}

func TestCalculateInsufficientDataReturnsSentinel(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(&stubGateway{})

	record, err := svc.Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Score != domain.InsufficientScore {
		t.Fatalf("expected sentinel score %d, got %d", domain.InsufficientScore, record.Score)
	}
	if record.DataQuality != domain.QualityInsufficient {
		t.Fatalf("expected INSUFFICIENT quality, got %s", record.DataQuality)
	}
}

func TestCalculateScoreStaysWithinBounds(t *testing.T) {
	userID := uuid.New()
	gw := reliableTenant(userID)

	// Pile on every penalty source to push toward the floor.
	for i := 0; i < 20; i++ {
		gw.breaches = append(gw.breaches, repository.LeaseBreach{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		})
	}

	record, err := newTestService(gw).Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Score < domain.MinScore || record.Score > domain.MaxScore {
		t.Fatalf("score %d out of bounds [%d, %d]", record.Score, domain.MinScore, domain.MaxScore)
	}
	if record.Score != domain.MinScore {
		t.Fatalf("expected heavy penalties to clamp at floor %d, got %d", domain.MinScore, record.Score)
	}
}

func TestCalculateReliableTenantScoresHigh(t *testing.T) {
	userID := uuid.New()

	record, err := newTestService(reliableTenant(userID)).Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.DataQuality != domain.QualityExcellent {
		t.Fatalf("expected EXCELLENT quality, got %s", record.DataQuality)
	}
	if record.Score != domain.MaxScore {
		t.Fatalf("expected a flawless record to clamp at the ceiling %d, got %d", domain.MaxScore, record.Score)
	}
}

func TestCalculateIgnoresTenancyWithoutProperty(t *testing.T) {
	userID := uuid.New()

	gw := reliableTenant(userID)
	orphanStart := time.Now().UTC().AddDate(-5, 0, 0)
	gw.tenancies = append(gw.tenancies, repository.Tenancy{
		ID:             uuid.New(),
		UserID:         userID,
		LeaseStartDate: &orphanStart,
		RentAmount:     900,
		PayFrequency:   "MONTHLY",
	})

	record, err := newTestService(gw).Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Score != domain.MaxScore {
		t.Fatalf("expected the property-less lease to stay out of payment matching, got score %d", record.Score)
	}
}

func TestCalculateIsDeterministicForFixedInputs(t *testing.T) {
	userID := uuid.New()
	gw := reliableTenant(userID)
	svc := newTestService(gw)

	first, err := svc.Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Score != second.Score {
		t.Fatalf("expected stable score, got %d then %d", first.Score, second.Score)
	}
	if first.DataQuality != second.DataQuality {
		t.Fatalf("expected stable quality, got %s then %s", first.DataQuality, second.DataQuality)
	}
}

func TestCalculateBreachLowersScore(t *testing.T) {
	userID := uuid.New()

	clean, err := newTestService(reliableTenant(userID)).Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Enough breaches to bite through the ceiling clamp.
	breached := reliableTenant(userID)
	for i := 0; i < 3; i++ {
		breached.breaches = append(breached.breaches, repository.LeaseBreach{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		})
	}

	withBreach, err := newTestService(breached).Calculate(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withBreach.Score >= clean.Score {
		t.Fatalf("expected breach to lower score: clean=%d breached=%d", clean.Score, withBreach.Score)
	}
	if withBreach.PenaltyPoints == 0 {
		t.Fatal("expected penalty points on the breached record")
	}
}

func TestRefreshPersistsRecord(t *testing.T) {
	userID := uuid.New()
	gw := reliableTenant(userID)

	record, err := newTestService(gw).Refresh(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.upserted == nil {
		t.Fatal("expected record to be persisted")
	}
	if gw.upserted.Score != record.Score || gw.upserted.UserID != userID {
		t.Fatalf("persisted record does not match returned record: %+v vs %+v", gw.upserted, record)
	}
}

func TestCurrentReturnsNotFoundWhenNeverScored(t *testing.T) {
	svc := newTestService(&stubGateway{})

	_, err := svc.Current(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for a user that was never scored")
	}
}
