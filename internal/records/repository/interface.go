package repository

import (
	"context"
	"time"

	"rental_portal_backend/internal/creditscore/domain"

	"github.com/google/uuid"
)

// Gateway is the read/upsert contract the credit score pipeline depends on.
// *Repository is the pgx implementation; tests substitute stubs.
type Gateway interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]Transaction, error)
	ListTenancies(ctx context.Context, userID uuid.UUID) ([]Tenancy, error)
	ListMessages(ctx context.Context, userID uuid.UUID, since time.Time) ([]Message, error)
	ListMaintenanceRequests(ctx context.Context, tenancyIDs []uuid.UUID) ([]MaintenanceRequest, error)
	ListInspections(ctx context.Context, tenancyIDs []uuid.UUID) ([]Inspection, error)
	ListLeaseBreaches(ctx context.Context, tenancyIDs []uuid.UUID) ([]LeaseBreach, error)
	ListAcceptedRenewals(ctx context.Context, tenancyIDs []uuid.UUID) ([]LeaseRenewal, error)
	UpsertScoreRecord(ctx context.Context, record domain.ScoreRecord) error
	GetScoreRecord(ctx context.Context, userID uuid.UUID) (domain.ScoreRecord, error)
	ListUserIDs(ctx context.Context, skip, take int) ([]uuid.UUID, error)
}

var _ Gateway = (*Repository)(nil)
