package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring obligation.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

type ObligationStatus string

const (
	ObligationStatusActive   ObligationStatus = "active"
	ObligationStatusInactive ObligationStatus = "inactive"
)

type ObligationKind string

const (
	ObligationKindBill         ObligationKind = "bill"
	ObligationKindSubscription ObligationKind = "subscription"
)

// RecurringObligation unifies bills and subscriptions: a fixed amount on
// a fixed cadence.
type RecurringObligation struct {
	ID          int32            `json:"id"`
	HouseholdID int32            `json:"householdId"`
	Name        string           `json:"name"`
	Kind        ObligationKind   `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	Frequency   Frequency        `json:"frequency"`
	Status      ObligationStatus `json:"status"`
	NextDueDate *time.Time       `json:"nextDueDate,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"deletedAt,omitempty"`
}

var (
	weeksPerYear    = decimal.NewFromInt(52)
	biweeksPerYear  = decimal.NewFromInt(26)
	monthsPerYear   = decimal.NewFromInt(12)
	quartersPerYear = decimal.NewFromInt(3)
)

// NormalizeMonthly converts an amount on the given cadence to its
// equivalent monthly amount. An unrecognized frequency contributes zero;
// it never errors and never produces an undefined value.
func NormalizeMonthly(amount decimal.Decimal, frequency Frequency) decimal.Decimal {
	switch frequency {
	case FrequencyMonthly:
		return amount
	case FrequencyAnnual:
		return amount.Div(monthsPerYear)
	case FrequencyQuarterly:
		return amount.Div(quartersPerYear)
	case FrequencyWeekly:
		return amount.Mul(weeksPerYear).Div(monthsPerYear)
	case FrequencyBiweekly:
		return amount.Mul(biweeksPerYear).Div(monthsPerYear)
	default:
		return decimal.Zero
	}
}

// MonthlyAmount returns the obligation's contribution to the monthly
// recurring total.
func (o *RecurringObligation) MonthlyAmount() decimal.Decimal {
	return NormalizeMonthly(o.Amount, o.Frequency)
}

// IsActive reports whether the obligation counts toward totals.
func (o *RecurringObligation) IsActive() bool {
	return o.Status == ObligationStatusActive
}

type RecurringRepository interface {
	Create(obligation *RecurringObligation) (*RecurringObligation, error)
	GetByID(householdID int32, id int32) (*RecurringObligation, error)
	ListByHousehold(householdID int32, activeOnly *bool) ([]*RecurringObligation, error)
	Update(obligation *RecurringObligation) (*RecurringObligation, error)
	SoftDelete(householdID int32, id int32) error
}
