package service

import (
	"testing"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func budget(category, amount string) *domain.Budget {
	return &domain.Budget{
		Category: category,
		Amount:   decimal.RequireFromString(amount),
	}
}

func spending(pairs map[string]string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		m[k] = decimal.RequireFromString(v)
	}
	return m
}

func TestEvaluateBudgets(t *testing.T) {
	svc := NewBudgetService(testutil.NewMockBudgetRepository(), nil)

	tests := []struct {
		name     string
		budgets  []*domain.Budget
		spending map[string]string
		want     []domain.BudgetStatus
	}{
		{
			name:     "under budget",
			budgets:  []*domain.Budget{budget("groceries", "1000")},
			spending: map[string]string{"groceries": "250"},
			want: []domain.BudgetStatus{
				{Category: "groceries", Limit: decimal.RequireFromString("1000"), Spent: decimal.RequireFromString("250"), Percentage: decimal.RequireFromString("25"), OverBudget: false},
			},
		},
		{
			name:     "exactly at budget is not over",
			budgets:  []*domain.Budget{budget("rent", "1200")},
			spending: map[string]string{"rent": "1200"},
			want: []domain.BudgetStatus{
				{Category: "rent", Limit: decimal.RequireFromString("1200"), Spent: decimal.RequireFromString("1200"), Percentage: decimal.RequireFromString("100"), OverBudget: false},
			},
		},
		{
			name:     "over budget",
			budgets:  []*domain.Budget{budget("dining", "200")},
			spending: map[string]string{"dining": "350"},
			want: []domain.BudgetStatus{
				{Category: "dining", Limit: decimal.RequireFromString("200"), Spent: decimal.RequireFromString("350"), Percentage: decimal.RequireFromString("175"), OverBudget: true},
			},
		},
		{
			name:     "no spending in budgeted category",
			budgets:  []*domain.Budget{budget("travel", "500")},
			spending: map[string]string{},
			want: []domain.BudgetStatus{
				{Category: "travel", Limit: decimal.RequireFromString("500"), Spent: decimal.Zero, Percentage: decimal.Zero, OverBudget: false},
			},
		},
		{
			name:     "zero ceiling with spending pins to sentinel",
			budgets:  []*domain.Budget{budget("impulse", "0")},
			spending: map[string]string{"impulse": "40"},
			want: []domain.BudgetStatus{
				{Category: "impulse", Limit: decimal.Zero, Spent: decimal.RequireFromString("40"), Percentage: domain.UtilizationSentinel, OverBudget: true},
			},
		},
		{
			name:     "zero ceiling without spending is zero percent",
			budgets:  []*domain.Budget{budget("impulse", "0")},
			spending: map[string]string{},
			want: []domain.BudgetStatus{
				{Category: "impulse", Limit: decimal.Zero, Spent: decimal.Zero, Percentage: decimal.Zero, OverBudget: false},
			},
		},
		{
			name: "duplicate category last write wins at first position",
			budgets: []*domain.Budget{
				budget("groceries", "400"),
				budget("rent", "1200"),
				budget("groceries", "600"),
			},
			spending: map[string]string{"groceries": "300", "rent": "1000"},
			want: []domain.BudgetStatus{
				{Category: "groceries", Limit: decimal.RequireFromString("600"), Spent: decimal.RequireFromString("300"), Percentage: decimal.RequireFromString("50"), OverBudget: false},
				{Category: "rent", Limit: decimal.RequireFromString("1200"), Spent: decimal.RequireFromString("1000"), Percentage: decimal.RequireFromString("83.33"), OverBudget: false},
			},
		},
		{
			name:     "nil budget entries are skipped",
			budgets:  []*domain.Budget{nil, budget("rent", "1000")},
			spending: map[string]string{"rent": "500"},
			want: []domain.BudgetStatus{
				{Category: "rent", Limit: decimal.RequireFromString("1000"), Spent: decimal.RequireFromString("500"), Percentage: decimal.RequireFromString("50"), OverBudget: false},
			},
		},
		{
			name:     "no budgets",
			budgets:  []*domain.Budget{},
			spending: map[string]string{"rent": "500"},
			want:     []domain.BudgetStatus{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.EvaluateBudgets(tt.budgets, spending(tt.spending))

			if len(got) != len(tt.want) {
				t.Fatalf("got %d statuses, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				status := got[i]
				if status.Category != want.Category {
					t.Errorf("status[%d].Category = %q, want %q", i, status.Category, want.Category)
				}
				if !status.Limit.Equal(want.Limit) {
					t.Errorf("status[%d].Limit = %s, want %s", i, status.Limit, want.Limit)
				}
				if !status.Spent.Equal(want.Spent) {
					t.Errorf("status[%d].Spent = %s, want %s", i, status.Spent, want.Spent)
				}
				if !status.Percentage.Round(2).Equal(want.Percentage) {
					t.Errorf("status[%d].Percentage = %s, want %s", i, status.Percentage.Round(2), want.Percentage)
				}
				if status.OverBudget != want.OverBudget {
					t.Errorf("status[%d].OverBudget = %v, want %v", i, status.OverBudget, want.OverBudget)
				}
			}
		})
	}
}
