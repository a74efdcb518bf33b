package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// FinancialGoal is a savings target with a deadline and a contribution
// rate. Over-funded goals (current > target) are valid, and the target
// date may already be in the past.
type FinancialGoal struct {
	ID                  int32           `json:"id"`
	HouseholdID         int32           `json:"householdId"`
	Title               string          `json:"title"`
	TargetAmount        decimal.Decimal `json:"targetAmount"`
	CurrentAmount       decimal.Decimal `json:"currentAmount"`
	TargetDate          time.Time       `json:"targetDate"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	Status              GoalStatus      `json:"status"`
	GoalType            *string         `json:"goalType,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	DeletedAt           *time.Time      `json:"deletedAt,omitempty"`
}

// GoalAnalysis is the evaluated trajectory of a goal as of a reference
// date. When a goal can never complete at the current contribution rate,
// ProjectedCompletion is nil and Unreachable is true; an already-funded
// goal projects completion at the reference date itself.
type GoalAnalysis struct {
	GoalID              int32           `json:"goalId"`
	Title               string          `json:"title"`
	ProgressPct         decimal.Decimal `json:"progressPct"`
	MonthsRemaining     float64         `json:"monthsRemaining"`
	RequiredMonthly     decimal.Decimal `json:"requiredMonthly"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	OnTrack             bool            `json:"onTrack"`
	ProjectedCompletion *time.Time      `json:"projectedCompletion,omitempty"`
	Unreachable         bool            `json:"unreachable"`
}

type GoalRepository interface {
	Create(goal *FinancialGoal) (*FinancialGoal, error)
	GetByID(householdID int32, id int32) (*FinancialGoal, error)
	ListByHousehold(householdID int32, status *GoalStatus) ([]*FinancialGoal, error)
	Update(goal *FinancialGoal) (*FinancialGoal, error)
	SoftDelete(householdID int32, id int32) error
}
