// Package domain defines the core credit score types shared by the period
// reconstructor, the component scorers and the persistence layer.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Score bounds. A computed score always lands inside [MinScore, MaxScore];
// InsufficientScore is a fixed sentinel, not a computed value.
const (
	MinScore          = 300
	MaxScore          = 850
	BaseScore         = 300
	InsufficientScore = 400
)

// Maximum points per component. The five components plus adjustments sit on
// top of BaseScore.
const (
	MaxPaymentHistory    = 350
	MaxRentalHistory     = 150
	MaxFinancialBehavior = 100
	MaxPropertyCare      = 50
	MaxCommunication     = 50
)

// PaymentCategory classifies how a single payment period was settled.
type PaymentCategory int

const (
	CategoryEarly PaymentCategory = iota
	CategoryOnTime
	CategoryLateMinor
	CategoryLateModerate
	CategoryLateSevere
	CategoryVeryLate
)

// String returns the wire representation of the category.
func (c PaymentCategory) String() string {
	switch c {
	case CategoryEarly:
		return "early"
	case CategoryOnTime:
		return "on-time"
	case CategoryLateMinor:
		return "late-minor"
	case CategoryLateModerate:
		return "late-moderate"
	case CategoryLateSevere:
		return "late-severe"
	case CategoryVeryLate:
		return "very-late"
	default:
		return "unknown"
	}
}

// Multiplier returns the payment history point multiplier for the category.
// Early payments earn a small bonus above par.
func (c PaymentCategory) Multiplier() float64 {
	switch c {
	case CategoryEarly:
		return 1.10
	case CategoryOnTime:
		return 1.00
	case CategoryLateMinor:
		return 0.80
	case CategoryLateModerate:
		return 0.60
	case CategoryLateSevere:
		return 0.40
	case CategoryVeryLate:
		return 0.10
	default:
		return 0
	}
}

// DataQuality classifies how much history backs a computed score.
type DataQuality int

const (
	QualityInsufficient DataQuality = iota
	QualitySufficient
	QualityExcellent
)

// String returns the persisted representation of the quality class.
func (q DataQuality) String() string {
	switch q {
	case QualitySufficient:
		return "SUFFICIENT"
	case QualityExcellent:
		return "EXCELLENT"
	default:
		return "INSUFFICIENT"
	}
}

// PayFrequency is the cadence of expected rent payments for a tenancy.
type PayFrequency int

const (
	FrequencyWeekly PayFrequency = iota
	FrequencyMonthly
	FrequencyQuarterly
	FrequencyAnnual
)

// Duration returns the length of one payment period. Months are fixed at 30
// days to match the rest of the score arithmetic.
func (f PayFrequency) Duration() time.Duration {
	switch f {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyQuarterly:
		return 90 * 24 * time.Hour
	case FrequencyAnnual:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// String returns the persisted representation of the frequency.
func (f PayFrequency) String() string {
	switch f {
	case FrequencyWeekly:
		return "WEEKLY"
	case FrequencyQuarterly:
		return "QUARTERLY"
	case FrequencyAnnual:
		return "ANNUALLY"
	default:
		return "MONTHLY"
	}
}

// ParseFrequency maps a stored frequency value to its closed type.
// Unknown values default to monthly, the dominant cadence for residential
// leases, rather than failing the whole computation.
func ParseFrequency(value string) (PayFrequency, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "WEEKLY":
		return FrequencyWeekly, nil
	case "MONTHLY", "":
		return FrequencyMonthly, nil
	case "QUARTERLY":
		return FrequencyQuarterly, nil
	case "ANNUALLY", "YEARLY", "ANNUAL":
		return FrequencyAnnual, nil
	default:
		return FrequencyMonthly, fmt.Errorf("unknown payment frequency %q", value)
	}
}

// PaymentPeriod is one expected rent obligation cycle, matched (or not)
// against an actual transaction. Periods are derived on every computation and
// never persisted. Index 0 is the most recent period.
type PaymentPeriod struct {
	ExpectedAmount float64
	PaidAmount     float64
	DueDate        time.Time
	PaymentDate    *time.Time
	DaysLate       int
	Category       PaymentCategory
	Frequency      PayFrequency
	Index          int
}

// ComponentBreakdown is the per-component block of the produced score record.
type ComponentBreakdown struct {
	Score      int      `json:"score"`
	MaxScore   int      `json:"maxScore"`
	Percentage int      `json:"percentage"`
	Factors    []string `json:"factors"`
}

// ScoreBreakdown groups the five component blocks.
type ScoreBreakdown struct {
	PaymentHistory    ComponentBreakdown `json:"paymentHistory"`
	RentalHistory     ComponentBreakdown `json:"rentalHistory"`
	FinancialBehavior ComponentBreakdown `json:"financialBehavior"`
	PropertyCare      ComponentBreakdown `json:"propertyCare"`
	Communication     ComponentBreakdown `json:"communication"`
}

// ScoreRecord is the produced contract: one persisted score per user,
// overwritten on every successful computation.
type ScoreRecord struct {
	UserID        uuid.UUID
	Score         int
	Breakdown     ScoreBreakdown
	DataQuality   DataQuality
	BonusPoints   int
	PenaltyPoints int
	LastUpdated   time.Time
}

// NewComponentBreakdown builds a breakdown block with the rounded percentage
// derived from score and max.
func NewComponentBreakdown(score, maxScore int, factors []string) ComponentBreakdown {
	pct := 0
	if maxScore > 0 {
		pct = int(float64(score)/float64(maxScore)*100 + 0.5)
	}
	return ComponentBreakdown{
		Score:      score,
		MaxScore:   maxScore,
		Percentage: pct,
		Factors:    factors,
	}
}
