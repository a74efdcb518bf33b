package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newSnapshotFixture() (*SnapshotService, *testutil.MockTransactionRepository, *testutil.MockBudgetRepository, *testutil.MockGoalRepository, *testutil.MockInvestmentRepository, *testutil.MockRecurringRepository) {
	txRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	goalRepo := testutil.NewMockGoalRepository()
	investmentRepo := testutil.NewMockInvestmentRepository()
	recurringRepo := testutil.NewMockRecurringRepository()

	svc := NewSnapshotService(
		txRepo,
		budgetRepo,
		goalRepo,
		investmentRepo,
		recurringRepo,
		NewAggregationService(),
		NewBudgetService(budgetRepo, nil),
		NewGoalService(goalRepo, nil),
	)
	return svc, txRepo, budgetRepo, goalRepo, investmentRepo, recurringRepo
}

func TestBuildSnapshot(t *testing.T) {
	const householdID = int32(1)
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("full month", func(t *testing.T) {
		svc, txRepo, budgetRepo, goalRepo, investmentRepo, recurringRepo := newSnapshotFixture()

		txRepo.AddTransaction(&domain.Transaction{
			ID: 1, HouseholdID: householdID,
			Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("5000"),
			Category: "salary",
		})
		txRepo.AddTransaction(&domain.Transaction{
			ID: 2, HouseholdID: householdID,
			Date:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("-1200"),
			Category: "rent",
		})
		txRepo.AddTransaction(&domain.Transaction{
			ID: 3, HouseholdID: householdID,
			Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("-300"),
			Category: "groceries",
		})
		// Prior month, must not leak into this period.
		txRepo.AddTransaction(&domain.Transaction{
			ID: 4, HouseholdID: householdID,
			Date:     time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("-999"),
			Category: "rent",
		})

		budgetRepo.AddBudget(&domain.Budget{
			ID: 1, HouseholdID: householdID,
			Category: "rent",
			Amount:   decimal.RequireFromString("1500"),
		})

		goalRepo.AddGoal(&domain.FinancialGoal{
			ID: 1, HouseholdID: householdID,
			Title:               "Emergency fund",
			TargetAmount:        decimal.RequireFromString("12000"),
			CurrentAmount:       decimal.RequireFromString("6000"),
			MonthlyContribution: decimal.RequireFromString("1000"),
			TargetDate:          asOf.AddDate(0, 0, 180),
			Status:              domain.GoalStatusActive,
		})
		goalRepo.AddGoal(&domain.FinancialGoal{
			ID: 2, HouseholdID: householdID,
			Title:        "Old car fund",
			TargetAmount: decimal.RequireFromString("5000"),
			Status:       domain.GoalStatusCompleted,
		})

		investmentRepo.AddInvestment(&domain.Investment{
			ID: 1, HouseholdID: householdID,
			Name: "Index fund", AssetType: "etf",
			CurrentValue: decimal.RequireFromString("12000"),
			CostBasis:    decimal.RequireFromString("10000"),
		})

		recurringRepo.AddObligation(&domain.RecurringObligation{
			ID: 1, HouseholdID: householdID,
			Name: "Streaming", Kind: domain.ObligationKindSubscription,
			Amount:    decimal.RequireFromString("15"),
			Frequency: domain.FrequencyMonthly,
			Status:    domain.ObligationStatusActive,
		})
		recurringRepo.AddObligation(&domain.RecurringObligation{
			ID: 2, HouseholdID: householdID,
			Name: "Insurance", Kind: domain.ObligationKindBill,
			Amount:    decimal.RequireFromString("1200"),
			Frequency: domain.FrequencyAnnual,
			Status:    domain.ObligationStatusActive,
		})
		recurringRepo.AddObligation(&domain.RecurringObligation{
			ID: 3, HouseholdID: householdID,
			Name: "Cancelled gym", Kind: domain.ObligationKindSubscription,
			Amount:    decimal.RequireFromString("50"),
			Frequency: domain.FrequencyMonthly,
			Status:    domain.ObligationStatusInactive,
		})

		snapshot, err := svc.BuildSnapshot(householdID, asOf)
		if err != nil {
			t.Fatalf("BuildSnapshot() error = %v", err)
		}

		if !snapshot.PeriodStart.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("PeriodStart = %v", snapshot.PeriodStart)
		}
		if !snapshot.PeriodEnd.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("PeriodEnd = %v", snapshot.PeriodEnd)
		}
		if !snapshot.MonthlyIncome.Equal(decimal.RequireFromString("5000")) {
			t.Errorf("MonthlyIncome = %s, want 5000", snapshot.MonthlyIncome)
		}
		if !snapshot.MonthlyExpenses.Equal(decimal.RequireFromString("1500")) {
			t.Errorf("MonthlyExpenses = %s, want 1500", snapshot.MonthlyExpenses)
		}
		if !snapshot.NetSavings.Equal(decimal.RequireFromString("3500")) {
			t.Errorf("NetSavings = %s, want 3500", snapshot.NetSavings)
		}
		if !snapshot.SavingsRate.Equal(decimal.RequireFromString("70")) {
			t.Errorf("SavingsRate = %s, want 70", snapshot.SavingsRate)
		}

		if got := snapshot.CategorySpending["rent"]; !got.Equal(decimal.RequireFromString("1200")) {
			t.Errorf("CategorySpending[rent] = %s, want 1200", got)
		}
		if got := snapshot.CategorySpending["groceries"]; !got.Equal(decimal.RequireFromString("300")) {
			t.Errorf("CategorySpending[groceries] = %s, want 300", got)
		}

		if len(snapshot.BudgetStatus) != 1 {
			t.Fatalf("BudgetStatus has %d entries, want 1", len(snapshot.BudgetStatus))
		}
		if !snapshot.BudgetStatus[0].Percentage.Equal(decimal.RequireFromString("80")) {
			t.Errorf("rent budget Percentage = %s, want 80", snapshot.BudgetStatus[0].Percentage)
		}
		if snapshot.BudgetStatus[0].OverBudget {
			t.Error("rent budget should not be over")
		}

		if len(snapshot.Goals) != 1 {
			t.Fatalf("Goals has %d entries, want only the active goal", len(snapshot.Goals))
		}
		if !snapshot.Goals[0].OnTrack {
			t.Error("active goal should be on track")
		}

		// 15 monthly + 1200 annual / 12
		if !snapshot.MonthlyRecurringTotal.Equal(decimal.RequireFromString("115")) {
			t.Errorf("MonthlyRecurringTotal = %s, want 115", snapshot.MonthlyRecurringTotal)
		}
		if !snapshot.DebtToIncomeRatio.Equal(decimal.RequireFromString("0.023")) {
			t.Errorf("DebtToIncomeRatio = %s, want 0.023", snapshot.DebtToIncomeRatio)
		}

		if !snapshot.InvestmentValue.Equal(decimal.RequireFromString("12000")) {
			t.Errorf("InvestmentValue = %s, want 12000", snapshot.InvestmentValue)
		}
		if !snapshot.InvestmentReturn.Equal(decimal.RequireFromString("0.2")) {
			t.Errorf("InvestmentReturn = %s, want 0.2", snapshot.InvestmentReturn)
		}
		if snapshot.SkippedRecords != 0 {
			t.Errorf("SkippedRecords = %d, want 0", snapshot.SkippedRecords)
		}
	})

	t.Run("zero income month", func(t *testing.T) {
		svc, txRepo, _, _, _, recurringRepo := newSnapshotFixture()

		txRepo.AddTransaction(&domain.Transaction{
			ID: 1, HouseholdID: householdID,
			Date:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("-400"),
			Category: "groceries",
		})
		recurringRepo.AddObligation(&domain.RecurringObligation{
			ID: 1, HouseholdID: householdID,
			Name: "Rent", Kind: domain.ObligationKindBill,
			Amount:    decimal.RequireFromString("1000"),
			Frequency: domain.FrequencyMonthly,
			Status:    domain.ObligationStatusActive,
		})

		snapshot, err := svc.BuildSnapshot(householdID, asOf)
		if err != nil {
			t.Fatalf("BuildSnapshot() error = %v", err)
		}

		if !snapshot.SavingsRate.IsZero() {
			t.Errorf("SavingsRate = %s, want 0 on zero income", snapshot.SavingsRate)
		}
		if !snapshot.DebtToIncomeRatio.IsZero() {
			t.Errorf("DebtToIncomeRatio = %s, want 0 on zero income", snapshot.DebtToIncomeRatio)
		}
		if !snapshot.NetSavings.Equal(decimal.RequireFromString("-400")) {
			t.Errorf("NetSavings = %s, want -400", snapshot.NetSavings)
		}
	})

	t.Run("empty household", func(t *testing.T) {
		svc, _, _, _, _, _ := newSnapshotFixture()

		snapshot, err := svc.BuildSnapshot(householdID, asOf)
		if err != nil {
			t.Fatalf("BuildSnapshot() error = %v", err)
		}

		if !snapshot.MonthlyIncome.IsZero() || !snapshot.MonthlyExpenses.IsZero() {
			t.Errorf("totals = %s / %s, want zeroes", snapshot.MonthlyIncome, snapshot.MonthlyExpenses)
		}
		if len(snapshot.BudgetStatus) != 0 {
			t.Errorf("BudgetStatus has %d entries, want 0", len(snapshot.BudgetStatus))
		}
		if len(snapshot.Goals) != 0 {
			t.Errorf("Goals has %d entries, want 0", len(snapshot.Goals))
		}
	})

	t.Run("repository error propagates", func(t *testing.T) {
		svc, txRepo, _, _, _, _ := newSnapshotFixture()
		wantErr := errors.New("connection lost")
		txRepo.ListFn = func(householdID int32, start, end time.Time) ([]*domain.Transaction, error) {
			return nil, wantErr
		}

		_, err := svc.BuildSnapshot(householdID, asOf)
		if !errors.Is(err, wantErr) {
			t.Errorf("BuildSnapshot() error = %v, want %v", err, wantErr)
		}
	})
}
