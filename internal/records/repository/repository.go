// Package repository is the read/upsert gateway over the tenant records the
// credit score pipeline consumes: transactions, tenancies, messages and the
// behavioral tables, plus the persisted score record itself.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

// Transaction reference categories and statuses as stored in the ledger.
const (
	RefRentPayment    = "RENT_PAYMENT"
	RefBillPayment    = "BILL_PAYMENT"
	RefMaintenanceFee = "MAINTENANCE_FEE"
	RefLateFee        = "LATE_FEE"

	StatusCompleted = "COMPLETED"
	StatusPending   = "PENDING"

	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Transaction is one row of the append-only payment ledger. Completed rows
// are immutable.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PropertyID     *uuid.UUID
	UnitID         *uuid.UUID
	RoomID         *uuid.UUID
	Amount         float64
	Type           string
	Reference      string
	Status         string
	PaymentGateway *string
	DueDate        *time.Time
	CreatedAt      time.Time
}

// TransactionFilter narrows a ledger query. Zero-value fields are ignored.
type TransactionFilter struct {
	References []string
	Statuses   []string
	Types      []string
	Since      *time.Time
}

// ListTransactions returns the user's ledger rows matching the filter,
// newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]Transaction, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if len(filter.References) > 0 {
		args = append(args, filter.References)
		conditions = append(conditions, fmt.Sprintf("reference = ANY($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(filter.Types) > 0 {
		args = append(args, filter.Types)
		conditions = append(conditions, fmt.Sprintf("tx_type = ANY($%d)", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, property_id, unit_id, room_id, amount, tx_type, reference, status, payment_gateway, due_date, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC
	`, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Transaction, 0)
	for rows.Next() {
		var item Transaction
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.PropertyID, &item.UnitID, &item.RoomID,
			&item.Amount, &item.Type, &item.Reference, &item.Status,
			&item.PaymentGateway, &item.DueDate, &item.CreatedAt,
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

// ListUserIDs pages through the user population in stable order. It is the
// pagination source for the full-population scan.
func (r *Repository) ListUserIDs(ctx context.Context, skip, take int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id
		FROM users
		ORDER BY id ASC
		OFFSET $1 LIMIT $2
	`, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, take)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return ids, nil
}
