// Package scoring holds the five component scorers, the adjustment
// calculator and the data quality gate. Every function here is pure: the
// reference time is always an explicit argument so a computation over fixed
// inputs is reproducible.
package scoring

import (
	"math"
	"time"

	"rental_portal_backend/internal/records/repository"
)

// monthLength fixes a month at 30 days for all duration arithmetic, keeping
// thresholds consistent across components.
const monthLength = 30 * 24 * time.Hour

// earlyTerminationGrace is how much earlier than the contracted end a
// move-out must be before the tenancy counts as terminated early.
const earlyTerminationGrace = monthLength

func monthsIn(d time.Duration) float64 {
	return d.Hours() / monthLength.Hours()
}

// tenancyEnd resolves when a tenancy effectively ended: now for a current
// lease, otherwise the recorded move-out, otherwise the contracted end.
func tenancyEnd(now time.Time, t repository.Tenancy) time.Time {
	if t.IsCurrentLease {
		return now
	}
	if t.MoveOutDate != nil {
		return *t.MoveOutDate
	}
	if t.LeaseEndDate != nil {
		return *t.LeaseEndDate
	}
	return now
}

// tenancyMonths sums the lived duration of all tenancies with a start date.
func tenancyMonths(now time.Time, tenancies []repository.Tenancy) float64 {
	total := 0.0
	for _, t := range tenancies {
		if t.LeaseStartDate == nil {
			continue
		}
		total += monthsIn(tenancyEnd(now, t).Sub(*t.LeaseStartDate))
	}
	return total
}

// terminatedEarly reports whether a completed tenancy ended more than one
// month before its contracted end date. Tenancies without a recorded
// move-out are treated as having run to term.
func terminatedEarly(t repository.Tenancy) bool {
	if t.IsCurrentLease || t.MoveOutDate == nil || t.LeaseEndDate == nil {
		return false
	}
	return t.MoveOutDate.Before(t.LeaseEndDate.Add(-earlyTerminationGrace))
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func roundCapped(value float64, max int) int {
	rounded := int(math.Round(value))
	if rounded > max {
		return max
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}
