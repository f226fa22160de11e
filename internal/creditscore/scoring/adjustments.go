package scoring

import (
	"time"

	"rental_portal_backend/internal/records/repository"
)

const (
	guarantorBonus       = 5
	longTenancyBonus     = 15
	longTenancyMonths    = 24.0
	outstandingDebtFine  = 30
	leaseBreachFine      = 40
	earlyTerminationFine = 30
)

// Adjustments returns the bonus and penalty points applied on top of the
// component scores. Bonuses reward a guarantor and a long-running current
// lease. Penalties punish outstanding debt above the configured threshold,
// recorded lease breaches and early terminations.
func Adjustments(now time.Time, tenancies []repository.Tenancy, breaches int, pendingDebt, debtThreshold float64) (bonus, penalty int) {
	hasGuarantor := false
	longCurrent := false
	earlyTerminations := 0

	for _, t := range tenancies {
		if t.HasGuarantor {
			hasGuarantor = true
		}
		if t.IsCurrentLease && t.LeaseStartDate != nil &&
			monthsIn(now.Sub(*t.LeaseStartDate)) > longTenancyMonths {
			longCurrent = true
		}
		if terminatedEarly(t) {
			earlyTerminations++
		}
	}

	if hasGuarantor {
		bonus += guarantorBonus
	}
	if longCurrent {
		bonus += longTenancyBonus
	}

	if pendingDebt > debtThreshold {
		penalty += outstandingDebtFine
	}
	penalty += leaseBreachFine * breaches
	penalty += earlyTerminationFine * earlyTerminations

	return bonus, penalty
}
