package scoring

import (
	"fmt"
	"math"

	"rental_portal_backend/internal/creditscore/domain"
)

// recencyDecay is the geometric weight base: the most recent period carries
// weight 1.0, each older period 5% less.
const recencyDecay = 0.95

// PaymentHistory scores up to 350 points from the reconstructed payment
// periods. Recent behavior dominates without old behavior being discarded.
func PaymentHistory(periods []domain.PaymentPeriod) (int, []string) {
	if len(periods) == 0 {
		return 0, []string{"No payment history available"}
	}

	var (
		weightedSum float64
		totalWeight float64
		earlyCount  int
		onTimeCount int
		lateCount   int
	)

	for _, period := range periods {
		weight := math.Pow(recencyDecay, float64(period.Index))
		weightedSum += period.Category.Multiplier() * weight
		totalWeight += weight

		switch period.Category {
		case domain.CategoryEarly:
			earlyCount++
		case domain.CategoryOnTime:
			onTimeCount++
		default:
			lateCount++
		}
	}

	average := 0.0
	if totalWeight > 0 {
		average = weightedSum / totalWeight
	}
	score := roundCapped(average*domain.MaxPaymentHistory, domain.MaxPaymentHistory)

	factors := []string{
		fmt.Sprintf("%d payment periods analyzed", len(periods)),
		fmt.Sprintf("%d on-time payments", onTimeCount),
	}
	if earlyCount > 0 {
		factors = append(factors, fmt.Sprintf("%d early payments (bonus)", earlyCount))
	}
	if lateCount > 0 {
		factors = append(factors, fmt.Sprintf("%d late payments", lateCount))
	}
	factors = append(factors, "Recency weighting applied (recent payments weighted more)")

	return score, factors
}
