package service

import (
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var twelve = decimal.NewFromInt(monthsPerYear)

// ProjectionService produces multi-horizon net-worth projections under
// what-if scenarios.
type ProjectionService struct{}

// NewProjectionService creates a new ProjectionService
func NewProjectionService() *ProjectionService {
	return &ProjectionService{}
}

// Project computes a projection for each requested year horizon. An
// empty scenario projects the baseline unchanged, and a zero horizon
// reproduces the snapshot's own investment value.
//
// The monthly surplus is (income + income delta) - (expenses - expense
// reduction); a negative surplus propagates into the projection since it
// signals real distress. The existing portfolio compounds geometrically
// at the scenario's annual return rate / 12; the scenario's monthly
// savings increase is treated as invested and compounds as an annuity at
// the same rate (degenerating to increase x months at rate zero). The
// windfall lands at month 0 and is not compounded; the major expense is
// subtracted when its year falls within the horizon. Decimal arithmetic
// throughout, so rounding happens only at the rendering boundary.
func (s *ProjectionService) Project(snapshot *domain.FinancialSnapshot, scenario domain.Scenario, horizonsYears []int) map[int]domain.Projection {
	surplus := snapshot.MonthlyIncome.
		Add(scenario.MonthlyIncomeDelta).
		Sub(snapshot.MonthlyExpenses.Sub(scenario.ExpenseReduction))

	monthlyRate := scenario.InvestmentReturnRate.Div(twelve)

	projections := make(map[int]domain.Projection, len(horizonsYears))
	for _, years := range horizonsYears {
		if years < 0 {
			continue
		}
		months := years * monthsPerYear

		totalSaved := surplus.Mul(decimal.NewFromInt(int64(months)))
		investmentValue := compoundValue(snapshot.InvestmentValue, scenario.MonthlySavingsIncrease, monthlyRate, months)

		netWorth := investmentValue.Add(totalSaved).Add(scenario.OneTimeWindfall)
		if scenario.MajorExpense.IsPositive() && scenario.MajorExpenseYear > 0 && scenario.MajorExpenseYear <= years {
			netWorth = netWorth.Sub(scenario.MajorExpense)
		}

		projections[years] = domain.Projection{
			YearsAhead:      years,
			Months:          months,
			MonthlySurplus:  surplus,
			TotalSaved:      totalSaved,
			InvestmentValue: investmentValue,
			NetWorth:        netWorth,
		}
	}

	return projections
}

// compoundValue grows a principal geometrically month over month and
// accrues a fixed monthly contribution as an annuity at the same rate.
// Simple-interest approximations are deliberately avoided.
func compoundValue(principal, monthlyContribution, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return principal
	}

	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return principal.Add(monthlyContribution.Mul(n))
	}

	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
	grown := principal.Mul(factor)
	annuity := monthlyContribution.Mul(factor.Sub(decimal.NewFromInt(1))).Div(monthlyRate)
	return grown.Add(annuity)
}
