package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenancy is one lease. Tenancies are never deleted; renewals and early
// terminations mutate the row. LeaseEndDate is the contracted end;
// MoveOutDate is when the tenant actually left, when that was recorded.
// PropertyID is nullable in legacy rows imported before properties were
// tracked.
type Tenancy struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PropertyID       *uuid.UUID
	UnitID           *uuid.UUID
	RoomID           *uuid.UUID
	LeaseStartDate   *time.Time
	LeaseEndDate     *time.Time
	MoveOutDate      *time.Time
	IsCurrentLease   bool
	RentAmount       float64
	PayFrequency     string
	OnTimeRentStatus bool
	HasGuarantor     bool
	CreatedAt        time.Time
}

// LeaseRenewal is a renewal offer attached to a tenancy.
type LeaseRenewal struct {
	ID        uuid.UUID
	TenancyID uuid.UUID
	Status    string
	CreatedAt time.Time
}

// ListTenancies returns all leases for a user, most recent start first.
func (r *Repository) ListTenancies(ctx context.Context, userID uuid.UUID) ([]Tenancy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, property_id, unit_id, room_id,
			lease_start_date, lease_end_date, move_out_date, is_current_lease,
			rent_amount, pay_frequency, on_time_rent_status, has_guarantor, created_at
		FROM tenancies
		WHERE user_id = $1
		ORDER BY lease_start_date DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Tenancy, 0)
	for rows.Next() {
		var item Tenancy
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.PropertyID, &item.UnitID, &item.RoomID,
			&item.LeaseStartDate, &item.LeaseEndDate, &item.MoveOutDate, &item.IsCurrentLease,
			&item.RentAmount, &item.PayFrequency, &item.OnTimeRentStatus, &item.HasGuarantor, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListAcceptedRenewals returns accepted renewal records for the given
// tenancies.
func (r *Repository) ListAcceptedRenewals(ctx context.Context, tenancyIDs []uuid.UUID) ([]LeaseRenewal, error) {
	if len(tenancyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenancy_id, status, created_at
		FROM lease_renewals
		WHERE tenancy_id = ANY($1) AND status = 'ACCEPTED'
		ORDER BY created_at DESC
	`, tenancyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeaseRenewal, 0)
	for rows.Next() {
		var item LeaseRenewal
		if err := rows.Scan(&item.ID, &item.TenancyID, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
