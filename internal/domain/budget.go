package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending ceiling for a category.
type Budget struct {
	ID          int32           `json:"id"`
	HouseholdID int32           `json:"householdId"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

// UtilizationSentinel stands in for an unbounded utilization percentage:
// spending against a zero ceiling. Decimal has no infinity, so the
// evaluator pins the percentage here instead of dividing by zero.
var UtilizationSentinel = decimal.NewFromInt(999999)

// BudgetStatus is the evaluated adherence of one budget for a period.
type BudgetStatus struct {
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	OverBudget bool            `json:"overBudget"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(householdID int32, id int32) (*Budget, error)
	ListByHousehold(householdID int32) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	SoftDelete(householdID int32, id int32) error
}
