package service

import (
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/util"
	"github.com/shopspring/decimal"
)

// SnapshotService assembles the full set of derived financial metrics
// for a household. The snapshot is recomputed from source records on
// every call; nothing is cached between invocations, so concurrent
// builds over different inputs are safe.
type SnapshotService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	goalRepo        domain.GoalRepository
	investmentRepo  domain.InvestmentRepository
	recurringRepo   domain.RecurringRepository
	aggregation     *AggregationService
	budgets         *BudgetService
	goals           *GoalService
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	goalRepo domain.GoalRepository,
	investmentRepo domain.InvestmentRepository,
	recurringRepo domain.RecurringRepository,
	aggregation *AggregationService,
	budgets *BudgetService,
	goals *GoalService,
) *SnapshotService {
	return &SnapshotService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		goalRepo:        goalRepo,
		investmentRepo:  investmentRepo,
		recurringRepo:   recurringRepo,
		aggregation:     aggregation,
		budgets:         budgets,
		goals:           goals,
	}
}

// BuildSnapshot computes the household's metrics for the calendar month
// containing asOf. The reference date is explicit so callers (and tests)
// control the period; no ambient clock is consulted.
func (s *SnapshotService) BuildSnapshot(householdID int32, asOf time.Time) (*domain.FinancialSnapshot, error) {
	periodStart, periodEnd := util.MonthBounds(asOf)

	transactions, err := s.transactionRepo.ListByDateRange(householdID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	totals := s.aggregation.AggregatePeriod(transactions, periodStart, periodEnd)

	budgets, err := s.budgetRepo.ListByHousehold(householdID)
	if err != nil {
		return nil, err
	}
	budgetStatus := s.budgets.EvaluateBudgets(budgets, totals.CategorySpending)

	activeStatus := domain.GoalStatusActive
	goals, err := s.goalRepo.ListByHousehold(householdID, &activeStatus)
	if err != nil {
		return nil, err
	}
	analyses := make([]domain.GoalAnalysis, 0, len(goals))
	for _, goal := range goals {
		analyses = append(analyses, s.goals.EvaluateGoal(goal, asOf))
	}

	investments, err := s.investmentRepo.ListByHousehold(householdID)
	if err != nil {
		return nil, err
	}

	activeOnly := true
	obligations, err := s.recurringRepo.ListByHousehold(householdID, &activeOnly)
	if err != nil {
		return nil, err
	}
	recurringTotal := decimal.Zero
	for _, obligation := range obligations {
		if obligation.IsActive() {
			recurringTotal = recurringTotal.Add(obligation.MonthlyAmount())
		}
	}

	netSavings := totals.Income.Sub(totals.Expenses)

	// Zero income renders as 0% / 0 ratio, never a division error.
	savingsRate := decimal.Zero
	debtToIncome := decimal.Zero
	if totals.Income.IsPositive() {
		savingsRate = netSavings.Div(totals.Income).Mul(oneHundred)
		debtToIncome = recurringTotal.Div(totals.Income)
	}

	return &domain.FinancialSnapshot{
		AsOf:                  asOf,
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		MonthlyIncome:         totals.Income,
		MonthlyExpenses:       totals.Expenses,
		NetSavings:            netSavings,
		SavingsRate:           savingsRate,
		CategorySpending:      totals.CategorySpending,
		BudgetStatus:          budgetStatus,
		MonthlyRecurringTotal: recurringTotal,
		DebtToIncomeRatio:     debtToIncome,
		InvestmentValue:       domain.PortfolioValue(investments),
		InvestmentReturn:      domain.PortfolioReturn(investments),
		Goals:                 analyses,
		SkippedRecords:        totals.Skipped,
	}, nil
}
