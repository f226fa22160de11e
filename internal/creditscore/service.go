// Package creditscore computes tenant creditworthiness scores from payment,
// tenancy, financial and behavioral records.
package creditscore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/creditscore/periods"
	"rental_portal_backend/internal/creditscore/scoring"
	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/records/repository"
	"rental_portal_backend/platform/apperr"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"
)

// Service orchestrates a full score computation: it gathers records through
// the gateway, runs the pure scorers and assembles the final record.
type Service struct {
	gateway repository.Gateway
	bus     events.Bus
	log     *logger.Logger
	cfg     config.ScoringConfig
}

func NewService(gateway repository.Gateway, bus events.Bus, log *logger.Logger, cfg config.ScoringConfig) *Service {
	return &Service{
		gateway: gateway,
		bus:     bus,
		log:     log,
		cfg:     cfg,
	}
}

// Calculate computes the score record for a user without persisting it.
// The same inputs always produce the same record apart from LastUpdated.
func (s *Service) Calculate(ctx context.Context, userID uuid.UUID) (domain.ScoreRecord, error) {
	now := time.Now().UTC()

	tenancies, err := s.gateway.ListTenancies(ctx, userID)
	if err != nil {
		return domain.ScoreRecord{}, apperr.Wrap(apperr.KindUnavailable, "list tenancies", err).WithOp("creditscore.Calculate")
	}

	rentPayments, err := s.gateway.ListTransactions(ctx, userID, repository.TransactionFilter{
		References: []string{repository.RefRentPayment},
		Statuses:   []string{repository.StatusCompleted},
	})
	if err != nil {
		return domain.ScoreRecord{}, apperr.Wrap(apperr.KindUnavailable, "list rent payments", err).WithOp("creditscore.Calculate")
	}

	quality := scoring.AssessDataQuality(now, rentPayments, tenancies)
	if quality == domain.QualityInsufficient {
		return scoring.InsufficientRecord(userID, now), nil
	}

	tenancyIDs := make([]uuid.UUID, 0, len(tenancies))
	for _, t := range tenancies {
		tenancyIDs = append(tenancyIDs, t.ID)
	}

	var (
		transactions []repository.Transaction
		pendingDebts []repository.Transaction
		messages     []repository.Message
		requests     []repository.MaintenanceRequest
		inspections  []repository.Inspection
		breaches     []repository.LeaseBreach
		renewals     []repository.LeaseRenewal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.gateway.ListTransactions(gctx, userID, repository.TransactionFilter{
			Since: ptrTime(now.AddDate(0, -12, 0)),
		})
		return err
	})
	g.Go(func() error {
		var err error
		pendingDebts, err = s.gateway.ListTransactions(gctx, userID, repository.TransactionFilter{
			Types:    []string{repository.TypeDebit},
			Statuses: []string{repository.StatusPending},
		})
		return err
	})
	g.Go(func() error {
		var err error
		messages, err = s.gateway.ListMessages(gctx, userID, now.AddDate(0, -6, 0))
		return err
	})
	g.Go(func() error {
		var err error
		requests, err = s.gateway.ListMaintenanceRequests(gctx, tenancyIDs)
		return err
	})
	g.Go(func() error {
		var err error
		inspections, err = s.gateway.ListInspections(gctx, tenancyIDs)
		return err
	})
	g.Go(func() error {
		var err error
		breaches, err = s.gateway.ListLeaseBreaches(gctx, tenancyIDs)
		return err
	})
	g.Go(func() error {
		var err error
		renewals, err = s.gateway.ListAcceptedRenewals(gctx, tenancyIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ScoreRecord{}, apperr.Wrap(apperr.KindUnavailable, "gather score inputs", err).WithOp("creditscore.Calculate")
	}

	paymentPeriods := periods.Reconstruct(now, tenancies, rentPayments)

	paymentScore, paymentFactors := scoring.PaymentHistory(paymentPeriods)
	rentalScore, rentalFactors := scoring.RentalHistory(now, tenancies, len(renewals))
	financialScore, financialFactors := scoring.FinancialBehavior(now, transactions)
	careScore, careFactors := scoring.PropertyCare(now, tenancies, requests, inspections)
	commScore, commFactors := scoring.Communication(now, userID, messages)

	var pendingDebt float64
	for _, tx := range pendingDebts {
		pendingDebt += tx.Amount
	}
	bonus, penalty := scoring.Adjustments(now, tenancies, len(breaches), pendingDebt, s.cfg.GetDebtThreshold())

	total := domain.BaseScore + paymentScore + rentalScore + financialScore + careScore + commScore + bonus - penalty
	if total < domain.MinScore {
		total = domain.MinScore
	}
	if total > domain.MaxScore {
		total = domain.MaxScore
	}

	return domain.ScoreRecord{
		UserID: userID,
		Score:  total,
		Breakdown: domain.ScoreBreakdown{
			PaymentHistory:    domain.NewComponentBreakdown(paymentScore, domain.MaxPaymentHistory, paymentFactors),
			RentalHistory:     domain.NewComponentBreakdown(rentalScore, domain.MaxRentalHistory, rentalFactors),
			FinancialBehavior: domain.NewComponentBreakdown(financialScore, domain.MaxFinancialBehavior, financialFactors),
			PropertyCare:      domain.NewComponentBreakdown(careScore, domain.MaxPropertyCare, careFactors),
			Communication:     domain.NewComponentBreakdown(commScore, domain.MaxCommunication, commFactors),
		},
		DataQuality:   quality,
		BonusPoints:   bonus,
		PenaltyPoints: penalty,
		LastUpdated:   now,
	}, nil
}

// Refresh recomputes a user's score, persists it and publishes ScoreUpdated.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (domain.ScoreRecord, error) {
	record, err := s.Calculate(ctx, userID)
	if err != nil {
		return domain.ScoreRecord{}, err
	}

	if err := s.gateway.UpsertScoreRecord(ctx, record); err != nil {
		s.log.DatabaseError("upsert score record", err)
		return domain.ScoreRecord{}, apperr.Wrap(apperr.KindUnavailable, "persist score record", err).WithOp("creditscore.Refresh")
	}

	s.bus.Publish(ctx, events.ScoreUpdated{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      userID,
		Score:       record.Score,
		DataQuality: record.DataQuality.String(),
	})
	s.log.ScoreComputed(userID.String(), record.Score, record.DataQuality.String())

	return record, nil
}

// Current returns the last persisted score record for a user.
// Returns repository.ErrNotFound wrapped as NotFound when never scored.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (domain.ScoreRecord, error) {
	record, err := s.gateway.GetScoreRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ScoreRecord{}, apperr.NotFound("score record not found").WithOp("creditscore.Current")
		}
		return domain.ScoreRecord{}, apperr.Wrap(apperr.KindUnavailable, "get score record", err).WithOp("creditscore.Current")
	}
	return record, nil
}

func ptrTime(t time.Time) *time.Time { return &t }
