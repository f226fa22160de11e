package scoring

import (
	"fmt"
	"math"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"
)

// durationCapMonths is the average tenancy duration that earns the full
// duration subscore.
const durationCapMonths = 24.0

// RentalHistory scores up to 150 points from tenancy track record: how long
// leases ran, how many completed, whether the final period was paid on time,
// renewal uptake and early-termination stability.
func RentalHistory(now time.Time, tenancies []repository.Tenancy, renewals int) (int, []string) {
	if len(tenancies) == 0 {
		return 0, []string{"No rental history"}
	}

	var (
		totalMonths       float64
		valid             int
		completed         int
		onTimeCompleted   int
		earlyTerminations int
	)

	for _, t := range tenancies {
		if t.LeaseStartDate == nil {
			continue
		}
		valid++
		totalMonths += monthsIn(tenancyEnd(now, t).Sub(*t.LeaseStartDate))

		if t.IsCurrentLease {
			continue
		}
		completed++
		if t.OnTimeRentStatus {
			onTimeCompleted++
		}
		if terminatedEarly(t) {
			earlyTerminations++
		}
	}

	if valid == 0 {
		return 0, []string{"No rental history"}
	}

	averageMonths := totalMonths / float64(valid)
	durationScore := math.Min(averageMonths/durationCapMonths, 1.0)
	completionScore := float64(completed) / float64(valid)

	onTimeRate := 0.0
	if completed > 0 {
		onTimeRate = float64(onTimeCompleted) / float64(completed)
	}

	renewalRate := 0.0
	if valid > 1 {
		renewalRate = float64(renewals) / float64(valid-1)
	}

	stabilityScore := math.Max(0, 1-float64(earlyTerminations)/float64(valid))

	score := (durationScore*0.25 +
		completionScore*0.25 +
		onTimeRate*0.20 +
		renewalRate*0.15 +
		stabilityScore*0.15) * domain.MaxRentalHistory

	factors := []string{
		fmt.Sprintf("%d tenancy(ies) total", valid),
		fmt.Sprintf("%d completed tenancy(ies)", completed),
		fmt.Sprintf("Average duration: %d months", int(math.Round(averageMonths))),
	}
	if renewals > 0 {
		factors = append(factors, fmt.Sprintf("%d lease renewal(s)", renewals))
	}
	if earlyTerminations > 0 {
		factors = append(factors, fmt.Sprintf("%d early termination(s)", earlyTerminations))
	}

	return roundCapped(score, domain.MaxRentalHistory), factors
}
