package service

import (
	"testing"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func baselineSnapshot(income, expenses, investmentValue string) *domain.FinancialSnapshot {
	return &domain.FinancialSnapshot{
		MonthlyIncome:   decimal.RequireFromString(income),
		MonthlyExpenses: decimal.RequireFromString(expenses),
		InvestmentValue: decimal.RequireFromString(investmentValue),
	}
}

func TestProject(t *testing.T) {
	svc := NewProjectionService()

	t.Run("empty scenario projects the baseline", func(t *testing.T) {
		snapshot := baselineSnapshot("5000", "3000", "10000")
		projections := svc.Project(snapshot, domain.Scenario{}, []int{1})

		p, ok := projections[1]
		if !ok {
			t.Fatal("missing projection for 1 year horizon")
		}
		if !p.MonthlySurplus.Equal(decimal.RequireFromString("2000")) {
			t.Errorf("MonthlySurplus = %s, want 2000", p.MonthlySurplus)
		}
		if !p.TotalSaved.Equal(decimal.RequireFromString("24000")) {
			t.Errorf("TotalSaved = %s, want 24000", p.TotalSaved)
		}
		if !p.InvestmentValue.Equal(decimal.RequireFromString("10000")) {
			t.Errorf("InvestmentValue = %s, want unchanged 10000 at zero rate", p.InvestmentValue)
		}
		if !p.NetWorth.Equal(decimal.RequireFromString("34000")) {
			t.Errorf("NetWorth = %s, want 34000", p.NetWorth)
		}
	})

	t.Run("zero horizon reproduces the snapshot", func(t *testing.T) {
		snapshot := baselineSnapshot("5000", "3000", "10000")
		scenario := domain.Scenario{
			InvestmentReturnRate: decimal.RequireFromString("0.12"),
		}
		projections := svc.Project(snapshot, scenario, []int{0})

		p := projections[0]
		if !p.TotalSaved.IsZero() {
			t.Errorf("TotalSaved = %s, want 0", p.TotalSaved)
		}
		if !p.InvestmentValue.Equal(snapshot.InvestmentValue) {
			t.Errorf("InvestmentValue = %s, want %s", p.InvestmentValue, snapshot.InvestmentValue)
		}
		if !p.NetWorth.Equal(snapshot.InvestmentValue) {
			t.Errorf("NetWorth = %s, want %s", p.NetWorth, snapshot.InvestmentValue)
		}
	})

	t.Run("income delta and expense reduction shift the surplus", func(t *testing.T) {
		snapshot := baselineSnapshot("5000", "3000", "0")
		scenario := domain.Scenario{
			MonthlyIncomeDelta: decimal.RequireFromString("500"),
			ExpenseReduction:   decimal.RequireFromString("200"),
		}
		projections := svc.Project(snapshot, scenario, []int{1})

		p := projections[1]
		if !p.MonthlySurplus.Equal(decimal.RequireFromString("2700")) {
			t.Errorf("MonthlySurplus = %s, want 2700", p.MonthlySurplus)
		}
		if !p.TotalSaved.Equal(decimal.RequireFromString("32400")) {
			t.Errorf("TotalSaved = %s, want 32400", p.TotalSaved)
		}
	})

	t.Run("negative surplus propagates", func(t *testing.T) {
		snapshot := baselineSnapshot("2000", "3000", "0")
		projections := svc.Project(snapshot, domain.Scenario{}, []int{1})

		p := projections[1]
		if !p.MonthlySurplus.Equal(decimal.RequireFromString("-1000")) {
			t.Errorf("MonthlySurplus = %s, want -1000", p.MonthlySurplus)
		}
		if !p.NetWorth.Equal(decimal.RequireFromString("-12000")) {
			t.Errorf("NetWorth = %s, want -12000", p.NetWorth)
		}
	})

	t.Run("portfolio compounds monthly at the annual rate over twelve", func(t *testing.T) {
		snapshot := baselineSnapshot("0", "0", "10000")
		scenario := domain.Scenario{
			InvestmentReturnRate: decimal.RequireFromString("0.12"),
		}
		projections := svc.Project(snapshot, scenario, []int{1})

		// 10000 * 1.01^12
		want := decimal.RequireFromString("11268.25")
		got := projections[1].InvestmentValue.Round(2)
		if !got.Equal(want) {
			t.Errorf("InvestmentValue = %s, want %s", got, want)
		}
	})

	t.Run("savings increase accrues without rate", func(t *testing.T) {
		snapshot := baselineSnapshot("0", "0", "1000")
		scenario := domain.Scenario{
			MonthlySavingsIncrease: decimal.RequireFromString("100"),
		}
		projections := svc.Project(snapshot, scenario, []int{2})

		p := projections[2]
		if !p.InvestmentValue.Equal(decimal.RequireFromString("3400")) {
			t.Errorf("InvestmentValue = %s, want 1000 + 100*24 = 3400", p.InvestmentValue)
		}
	})

	t.Run("windfall lands uncompounded", func(t *testing.T) {
		snapshot := baselineSnapshot("0", "0", "0")
		scenario := domain.Scenario{
			OneTimeWindfall:      decimal.RequireFromString("5000"),
			InvestmentReturnRate: decimal.RequireFromString("0.50"),
		}
		projections := svc.Project(snapshot, scenario, []int{10})

		if !projections[10].NetWorth.Equal(decimal.RequireFromString("5000")) {
			t.Errorf("NetWorth = %s, want exactly the windfall", projections[10].NetWorth)
		}
	})

	t.Run("major expense applies only within its horizon", func(t *testing.T) {
		snapshot := baselineSnapshot("5000", "3000", "0")
		scenario := domain.Scenario{
			MajorExpense:     decimal.RequireFromString("20000"),
			MajorExpenseYear: 3,
		}
		projections := svc.Project(snapshot, scenario, []int{1, 5})

		if !projections[1].NetWorth.Equal(decimal.RequireFromString("24000")) {
			t.Errorf("year 1 NetWorth = %s, want 24000 untouched by a year 3 expense", projections[1].NetWorth)
		}
		if !projections[5].NetWorth.Equal(decimal.RequireFromString("100000")) {
			t.Errorf("year 5 NetWorth = %s, want 120000 - 20000", projections[5].NetWorth)
		}
	})

	t.Run("negative horizons are skipped", func(t *testing.T) {
		snapshot := baselineSnapshot("5000", "3000", "0")
		projections := svc.Project(snapshot, domain.Scenario{}, []int{-1, 1})

		if _, ok := projections[-1]; ok {
			t.Error("negative horizon should not produce a projection")
		}
		if len(projections) != 1 {
			t.Errorf("got %d projections, want 1", len(projections))
		}
	})

	t.Run("default horizons cover one five and ten years", func(t *testing.T) {
		snapshot := baselineSnapshot("4000", "3000", "0")
		projections := svc.Project(snapshot, domain.Scenario{}, domain.DefaultHorizons)

		for _, years := range []int{1, 5, 10} {
			p, ok := projections[years]
			if !ok {
				t.Errorf("missing projection for %d years", years)
				continue
			}
			wantMonths := years * 12
			if p.Months != wantMonths {
				t.Errorf("projection[%d].Months = %d, want %d", years, p.Months, wantMonths)
			}
		}
	})
}
