package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSnapshot is the full set of derived metrics for a household
// as of a reference date. It is recomputed from source records on every
// request and never persisted.
//
// SavingsRate is a percentage (70 means 70% of income kept);
// DebtToIncomeRatio is a plain ratio (0.3 means recurring obligations
// consume 30% of income). Both are zero when income is zero.
type FinancialSnapshot struct {
	AsOf                  time.Time                  `json:"asOf"`
	PeriodStart           time.Time                  `json:"periodStart"`
	PeriodEnd             time.Time                  `json:"periodEnd"`
	MonthlyIncome         decimal.Decimal            `json:"monthlyIncome"`
	MonthlyExpenses       decimal.Decimal            `json:"monthlyExpenses"`
	NetSavings            decimal.Decimal            `json:"netSavings"`
	SavingsRate           decimal.Decimal            `json:"savingsRate"`
	CategorySpending      map[string]decimal.Decimal `json:"categorySpending"`
	BudgetStatus          []BudgetStatus             `json:"budgetStatus"`
	MonthlyRecurringTotal decimal.Decimal            `json:"monthlyRecurringTotal"`
	DebtToIncomeRatio     decimal.Decimal            `json:"debtToIncomeRatio"`
	InvestmentValue       decimal.Decimal            `json:"investmentValue"`
	InvestmentReturn      decimal.Decimal            `json:"investmentReturn"`
	Goals                 []GoalAnalysis             `json:"goals"`
	SkippedRecords        int                        `json:"skippedRecords"`
}
