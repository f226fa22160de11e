package scoring

import (
	"fmt"
	"math"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"
)

const (
	financialWindowMonths = 12
	lateFeePenaltyStep    = 0.10
	gatewayConsistencyTip = 0.05
)

// FinancialBehavior scores up to 100 points from how completely and punctually
// the tenant settled their financial obligations over the last twelve months.
// Late fees on the ledger erode the score and sticking to a single payment
// gateway earns a small bonus.
func FinancialBehavior(now time.Time, transactions []repository.Transaction) (int, []string) {
	since := now.AddDate(0, -financialWindowMonths, 0)

	var recent []repository.Transaction
	for _, tx := range transactions {
		if tx.CreatedAt.Before(since) {
			continue
		}
		switch tx.Reference {
		case repository.RefRentPayment, repository.RefBillPayment,
			repository.RefMaintenanceFee, repository.RefLateFee:
			recent = append(recent, tx)
		}
	}

	if len(recent) == 0 {
		return 50, []string{"Insufficient financial data"}
	}

	var (
		totalObligations float64
		totalPaid        float64
		onTimeCount      int
		lateFeeCount     int
	)
	gateways := make(map[string]struct{})

	for _, tx := range recent {
		if tx.Reference == repository.RefLateFee {
			lateFeeCount++
			continue
		}
		totalObligations += tx.Amount
		if tx.Status == repository.StatusCompleted {
			totalPaid += tx.Amount
			if tx.DueDate == nil || !tx.CreatedAt.After(*tx.DueDate) {
				onTimeCount++
			}
			if tx.PaymentGateway != nil {
				gateways[*tx.PaymentGateway] = struct{}{}
			}
		}
	}

	completeness := 1.0
	if totalObligations > 0 {
		completeness = clamp01(totalPaid / totalObligations)
	}
	onTimeRate := float64(onTimeCount) / float64(len(recent))
	lateFeeScore := math.Max(0, 1-lateFeePenaltyStep*float64(lateFeeCount))

	bonus := 0.0
	if len(gateways) == 1 {
		bonus = gatewayConsistencyTip
	}

	score := clamp01(completeness*0.35+onTimeRate*0.30+lateFeeScore*0.20+bonus) * domain.MaxFinancialBehavior

	factors := []string{
		fmt.Sprintf("%d financial transactions in last 12 months", len(recent)),
		fmt.Sprintf("Payment completeness: %d%%", int(math.Round(completeness*100))),
		fmt.Sprintf("On-time rate: %d%%", int(math.Round(onTimeRate*100))),
	}
	if lateFeeCount > 0 {
		factors = append(factors, fmt.Sprintf("%d late fee(s) incurred", lateFeeCount))
	}
	if bonus > 0 {
		factors = append(factors, "Consistent payment method (bonus)")
	}

	return roundCapped(score, domain.MaxFinancialBehavior), factors
}
