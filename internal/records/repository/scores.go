package repository

import (
	"context"
	"encoding/json"
	"errors"

	"rental_portal_backend/internal/creditscore/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertScoreRecord persists a computed score, creating the row on first
// computation and overwriting it on every subsequent run. The single
// INSERT .. ON CONFLICT statement keeps the write atomic: readers never see a
// partially updated record.
func (r *Repository) UpsertScoreRecord(ctx context.Context, record domain.ScoreRecord) error {
	breakdown, err := json.Marshal(record.Breakdown)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO credit_scores (
			user_id, score, payment_history, rental_history, financial_behavior,
			property_care, communication, bonus_points, penalty_points,
			data_quality, score_breakdown, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			score = EXCLUDED.score,
			payment_history = EXCLUDED.payment_history,
			rental_history = EXCLUDED.rental_history,
			financial_behavior = EXCLUDED.financial_behavior,
			property_care = EXCLUDED.property_care,
			communication = EXCLUDED.communication,
			bonus_points = EXCLUDED.bonus_points,
			penalty_points = EXCLUDED.penalty_points,
			data_quality = EXCLUDED.data_quality,
			score_breakdown = EXCLUDED.score_breakdown,
			last_updated = EXCLUDED.last_updated
	`,
		record.UserID, record.Score,
		record.Breakdown.PaymentHistory.Score, record.Breakdown.RentalHistory.Score,
		record.Breakdown.FinancialBehavior.Score, record.Breakdown.PropertyCare.Score,
		record.Breakdown.Communication.Score,
		record.BonusPoints, record.PenaltyPoints,
		record.DataQuality.String(), breakdown, record.LastUpdated,
	)
	return err
}

// GetScoreRecord returns the persisted score for a user, or ErrNotFound if no
// computation has run yet.
func (r *Repository) GetScoreRecord(ctx context.Context, userID uuid.UUID) (domain.ScoreRecord, error) {
	var (
		record    domain.ScoreRecord
		quality   string
		breakdown []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT user_id, score, bonus_points, penalty_points, data_quality, score_breakdown, last_updated
		FROM credit_scores
		WHERE user_id = $1
	`, userID).Scan(
		&record.UserID, &record.Score, &record.BonusPoints, &record.PenaltyPoints,
		&quality, &breakdown, &record.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ScoreRecord{}, ErrNotFound
		}
		return domain.ScoreRecord{}, err
	}

	record.DataQuality = parseDataQuality(quality)
	if err := json.Unmarshal(breakdown, &record.Breakdown); err != nil {
		return domain.ScoreRecord{}, err
	}

	return record, nil
}

func parseDataQuality(value string) domain.DataQuality {
	switch value {
	case "EXCELLENT":
		return domain.QualityExcellent
	case "SUFFICIENT":
		return domain.QualitySufficient
	default:
		return domain.QualityInsufficient
	}
}
