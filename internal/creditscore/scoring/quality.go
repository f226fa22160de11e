package scoring

import (
	"time"

	"github.com/google/uuid"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"
)

const (
	minPaymentCount         = 3
	excellentHistoryMonths  = 12.0
	sufficientHistoryMonths = 6.0
)

// AssessDataQuality gates scoring on having enough history to score fairly.
// Payments must be completed rent payments sorted newest first.
func AssessDataQuality(now time.Time, payments []repository.Transaction, tenancies []repository.Tenancy) domain.DataQuality {
	var paymentMonths float64
	if len(payments) > 0 {
		newest := payments[0].CreatedAt
		oldest := payments[len(payments)-1].CreatedAt
		paymentMonths = monthsIn(newest.Sub(oldest))
	}

	hasCompleted := false
	var currentMonths float64
	for _, t := range tenancies {
		if !t.IsCurrentLease {
			hasCompleted = true
			continue
		}
		if t.LeaseStartDate != nil {
			currentMonths = monthsIn(now.Sub(*t.LeaseStartDate))
		}
	}

	enoughPayments := len(payments) >= minPaymentCount

	if paymentMonths >= excellentHistoryMonths && hasCompleted && enoughPayments {
		return domain.QualityExcellent
	}
	if paymentMonths >= sufficientHistoryMonths && enoughPayments &&
		(hasCompleted || currentMonths >= sufficientHistoryMonths) {
		return domain.QualitySufficient
	}
	return domain.QualityInsufficient
}

// InsufficientRecord is the fixed record written when history is too thin to
// score. The sentinel score signals "unknown" rather than "bad".
func InsufficientRecord(userID uuid.UUID, now time.Time) domain.ScoreRecord {
	return domain.ScoreRecord{
		UserID: userID,
		Score:  domain.InsufficientScore,
		Breakdown: domain.ScoreBreakdown{
			PaymentHistory: domain.NewComponentBreakdown(0, domain.MaxPaymentHistory,
				[]string{"Insufficient payment history (minimum 6 months required)"}),
			RentalHistory: domain.NewComponentBreakdown(0, domain.MaxRentalHistory,
				[]string{"Insufficient rental history"}),
			FinancialBehavior: domain.NewComponentBreakdown(0, domain.MaxFinancialBehavior,
				[]string{"Insufficient financial data"}),
			PropertyCare: domain.NewComponentBreakdown(0, domain.MaxPropertyCare,
				[]string{"Insufficient property care data"}),
			Communication: domain.NewComponentBreakdown(0, domain.MaxCommunication,
				[]string{"Insufficient communication data"}),
		},
		DataQuality: domain.QualityInsufficient,
		LastUpdated: now,
	}
}
