package domain

import "github.com/shopspring/decimal"

// Scenario is a set of what-if deltas from the baseline snapshot. Zero
// values mean "no change"; an empty Scenario projects the baseline.
type Scenario struct {
	MonthlyIncomeDelta     decimal.Decimal `json:"monthlyIncomeDelta"`
	ExpenseReduction       decimal.Decimal `json:"expenseReduction"`
	MonthlySavingsIncrease decimal.Decimal `json:"monthlySavingsIncrease"`
	// InvestmentReturnRate is an annual rate (0.07 = 7%), applied
	// geometrically at rate/12 per month.
	InvestmentReturnRate decimal.Decimal `json:"investmentReturnRate"`
	OneTimeWindfall      decimal.Decimal `json:"oneTimeWindfall"`
	MajorExpense         decimal.Decimal `json:"majorExpense"`
	MajorExpenseYear     int             `json:"majorExpenseYear"`
}

// IsZero reports whether the scenario changes nothing from baseline.
func (s *Scenario) IsZero() bool {
	return s.MonthlyIncomeDelta.IsZero() &&
		s.ExpenseReduction.IsZero() &&
		s.MonthlySavingsIncrease.IsZero() &&
		s.InvestmentReturnRate.IsZero() &&
		s.OneTimeWindfall.IsZero() &&
		s.MajorExpense.IsZero()
}

// Projection is the projected position at one horizon.
type Projection struct {
	YearsAhead      int             `json:"yearsAhead"`
	Months          int             `json:"months"`
	MonthlySurplus  decimal.Decimal `json:"monthlySurplus"`
	TotalSaved      decimal.Decimal `json:"totalSaved"`
	InvestmentValue decimal.Decimal `json:"investmentValue"`
	NetWorth        decimal.Decimal `json:"netWorth"`
}

// DefaultHorizons are the horizons the dashboard charts; the projector
// accepts any set.
var DefaultHorizons = []int{1, 5, 10}
