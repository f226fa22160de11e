// Package periods reconstructs expected payment periods from lease terms and
// matches them against the actual transaction ledger. Everything here is a
// pure function of its inputs; nothing reads the clock or touches storage.
package periods

import (
	"math"
	"sort"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"

	"github.com/google/uuid"
)

const (
	// matchWindow is how far a transaction may land from a due date and
	// still be considered a payment for that period.
	matchWindow = 7 * 24 * time.Hour

	// amountTolerance is the relative amount band for matching a
	// transaction to an expected period.
	amountTolerance = 0.10

	// fullPaymentThreshold is the fraction of the expected amount below
	// which a matched payment counts as partial.
	fullPaymentThreshold = 0.95

	// maxPeriods caps the reconstructed history at 24 months assuming the
	// densest supported cadence, bounding memory on very old leases.
	maxPeriods = 96
)

// Reconstruct derives the ordered payment period list for a user from their
// tenancies and completed rent transactions. Tenancies without a property,
// a start date or a positive rent amount are skipped rather than failing the
// whole calculation. Index 0 is the most recent period.
func Reconstruct(now time.Time, tenancies []repository.Tenancy, payments []repository.Transaction) []domain.PaymentPeriod {
	all := make([]domain.PaymentPeriod, 0)

	for _, tenancy := range tenancies {
		if tenancy.PropertyID == nil || tenancy.LeaseStartDate == nil || tenancy.RentAmount <= 0 {
			continue
		}

		freq, _ := domain.ParseFrequency(tenancy.PayFrequency)
		end := now
		if !tenancy.IsCurrentLease && tenancy.LeaseEndDate != nil {
			end = *tenancy.LeaseEndDate
		}

		dueDates := expectedDueDates(*tenancy.LeaseStartDate, end, freq)
		ledger := paymentsForTenancy(tenancy, payments)
		used := make([]bool, len(ledger))

		for _, due := range dueDates {
			match := nearestPayment(ledger, used, due, tenancy.RentAmount)

			period := domain.PaymentPeriod{
				ExpectedAmount: tenancy.RentAmount,
				DueDate:        due,
				Frequency:      freq,
			}
			if match >= 0 {
				used[match] = true
				paid := ledger[match]
				period.PaidAmount = paid.Amount
				paidAt := paid.CreatedAt
				period.PaymentDate = &paidAt
				period.DaysLate = maxInt(0, daysBetween(due, paid.CreatedAt))
				period.Category = categorizePaid(due, tenancy.RentAmount, paid)
			} else {
				period.DaysLate = maxInt(0, daysBetween(due, now))
				period.Category = categorizeMissing(now, due)
			}

			all = append(all, period)
		}
	}

	// Most recent first, then cap and assign indexes.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DueDate.After(all[j].DueDate)
	})
	if len(all) > maxPeriods {
		all = all[:maxPeriods]
	}
	for i := range all {
		all[i].Index = i
	}

	return all
}

// expectedDueDates steps from lease start to end in frequency-sized
// increments. The first obligation falls one full period after the start.
func expectedDueDates(start, end time.Time, freq domain.PayFrequency) []time.Time {
	step := freq.Duration()
	dates := make([]time.Time, 0)

	for due := start.Add(step); !due.After(end); due = due.Add(step) {
		dates = append(dates, due)
	}

	return dates
}

// paymentsForTenancy narrows the ledger to transactions attributable to the
// tenancy's property, unit and room.
func paymentsForTenancy(tenancy repository.Tenancy, payments []repository.Transaction) []repository.Transaction {
	matched := make([]repository.Transaction, 0, len(payments))
	for _, p := range payments {
		if p.PropertyID == nil || *p.PropertyID != *tenancy.PropertyID {
			continue
		}
		if !uuidPtrEqual(p.UnitID, tenancy.UnitID) || !uuidPtrEqual(p.RoomID, tenancy.RoomID) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// nearestPayment returns the index of the unused transaction closest to the
// due date that falls within the date window and amount tolerance, or -1.
func nearestPayment(ledger []repository.Transaction, used []bool, due time.Time, expected float64) int {
	best := -1
	var bestDistance time.Duration

	for i, p := range ledger {
		if used[i] {
			continue
		}

		distance := absDuration(p.CreatedAt.Sub(due))
		if distance > matchWindow {
			continue
		}
		if math.Abs(p.Amount-expected) >= expected*amountTolerance {
			continue
		}

		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	return best
}

// categorizeMissing classifies a period with no matched payment relative to
// the current date.
func categorizeMissing(now, due time.Time) domain.PaymentCategory {
	overdue := daysBetween(due, now)
	switch {
	case overdue > 30:
		return domain.CategoryVeryLate
	case overdue > 14:
		return domain.CategoryLateSevere
	case overdue > 7:
		return domain.CategoryLateModerate
	default:
		return domain.CategoryLateMinor
	}
}

// categorizePaid classifies a matched payment. A partial payment is never
// on time regardless of date.
func categorizePaid(due time.Time, expected float64, payment repository.Transaction) domain.PaymentCategory {
	if payment.Amount < expected*fullPaymentThreshold {
		return domain.CategoryVeryLate
	}

	diff := daysBetween(due, payment.CreatedAt)
	switch {
	case diff < 0:
		return domain.CategoryEarly
	case diff == 0:
		return domain.CategoryOnTime
	case diff <= 7:
		return domain.CategoryLateMinor
	case diff <= 14:
		return domain.CategoryLateModerate
	case diff <= 30:
		return domain.CategoryLateSevere
	default:
		return domain.CategoryVeryLate
	}
}

// daysBetween returns the floored whole-day difference from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
