package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is one chat message. ThreadID groups a conversation with a single
// counterpart (landlord, agent, support).
type Message struct {
	ID         uuid.UUID
	ThreadID   uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	CreatedAt  time.Time
}

// MaintenanceRequest is a tenant-filed maintenance ticket.
type MaintenanceRequest struct {
	ID          uuid.UUID
	TenancyID   uuid.UUID
	Description string
	CreatedAt   time.Time
}

// Inspection is a recorded property inspection with a 0-5 rating.
// Rating 0 means the inspector left no score.
type Inspection struct {
	ID        uuid.UUID
	TenancyID uuid.UUID
	Rating    float64
	CreatedAt time.Time
}

// LeaseBreach is a recorded violation of lease terms.
type LeaseBreach struct {
	ID          uuid.UUID
	TenancyID   uuid.UUID
	Description string
	CreatedAt   time.Time
}

// ListMessages returns messages sent or received by the user since the given
// time, newest first.
func (r *Repository) ListMessages(ctx context.Context, userID uuid.UUID, since time.Time) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, thread_id, sender_id, receiver_id, created_at
		FROM messages
		WHERE (sender_id = $1 OR receiver_id = $1) AND created_at >= $2
		ORDER BY created_at DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Message, 0)
	for rows.Next() {
		var item Message
		if err := rows.Scan(&item.ID, &item.ThreadID, &item.SenderID, &item.ReceiverID, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListMaintenanceRequests returns maintenance tickets for the given tenancies.
func (r *Repository) ListMaintenanceRequests(ctx context.Context, tenancyIDs []uuid.UUID) ([]MaintenanceRequest, error) {
	if len(tenancyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenancy_id, description, created_at
		FROM maintenance_requests
		WHERE tenancy_id = ANY($1)
		ORDER BY created_at DESC
	`, tenancyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]MaintenanceRequest, 0)
	for rows.Next() {
		var item MaintenanceRequest
		if err := rows.Scan(&item.ID, &item.TenancyID, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListInspections returns inspections for the given tenancies.
func (r *Repository) ListInspections(ctx context.Context, tenancyIDs []uuid.UUID) ([]Inspection, error) {
	if len(tenancyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenancy_id, COALESCE(rating, 0), created_at
		FROM inspections
		WHERE tenancy_id = ANY($1)
		ORDER BY created_at DESC
	`, tenancyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Inspection, 0)
	for rows.Next() {
		var item Inspection
		if err := rows.Scan(&item.ID, &item.TenancyID, &item.Rating, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListLeaseBreaches returns recorded lease breaches for the given tenancies.
func (r *Repository) ListLeaseBreaches(ctx context.Context, tenancyIDs []uuid.UUID) ([]LeaseBreach, error) {
	if len(tenancyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, tenancy_id, description, created_at
		FROM lease_breaches
		WHERE tenancy_id = ANY($1)
		ORDER BY created_at DESC
	`, tenancyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeaseBreach, 0)
	for rows.Next() {
		var item LeaseBreach
		if err := rows.Scan(&item.ID, &item.TenancyID, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
