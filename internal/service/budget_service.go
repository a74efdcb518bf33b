package service

import (
	"strings"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BudgetService manages budget ceilings and evaluates category spending
// against them.
type BudgetService struct {
	budgetRepo domain.BudgetRepository
	publisher  websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, publisher websocket.EventPublisher) *BudgetService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &BudgetService{
		budgetRepo: budgetRepo,
		publisher:  publisher,
	}
}

// EvaluateBudgets computes utilization for each budget against the
// period's category spending. When several budgets share a category the
// last one wins; the surviving entry keeps the position of the
// category's first appearance, so output order follows input order.
// A zero ceiling with spending yields domain.UtilizationSentinel rather
// than a division by zero; a zero ceiling with no spending is 0%.
func (s *BudgetService) EvaluateBudgets(budgets []*domain.Budget, categorySpending map[string]decimal.Decimal) []domain.BudgetStatus {
	statuses := make([]domain.BudgetStatus, 0, len(budgets))
	position := make(map[string]int, len(budgets))

	for _, budget := range budgets {
		if budget == nil {
			continue
		}

		spent := categorySpending[budget.Category]
		status := domain.BudgetStatus{
			Category: budget.Category,
			Limit:    budget.Amount,
			Spent:    spent,
		}

		switch {
		case budget.Amount.IsZero() && spent.IsPositive():
			status.Percentage = domain.UtilizationSentinel
			status.OverBudget = true
		case budget.Amount.IsZero():
			status.Percentage = decimal.Zero
		default:
			status.Percentage = spent.Div(budget.Amount).Mul(oneHundred)
			status.OverBudget = spent.GreaterThan(budget.Amount)
		}

		if idx, seen := position[budget.Category]; seen {
			statuses[idx] = status
			continue
		}
		position[budget.Category] = len(statuses)
		statuses = append(statuses, status)
	}

	return statuses
}

// CreateBudget creates a new budget ceiling for a category
func (s *BudgetService) CreateBudget(householdID int32, category string, amount decimal.Decimal) (*domain.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	created, err := s.budgetRepo.Create(&domain.Budget{
		HouseholdID: householdID,
		Category:    category,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.BudgetUpdated(created))
	return created, nil
}

// ListBudgets retrieves all budgets for a household
func (s *BudgetService) ListBudgets(householdID int32) ([]*domain.Budget, error) {
	return s.budgetRepo.ListByHousehold(householdID)
}

// UpdateBudget updates a budget's category and amount
func (s *BudgetService) UpdateBudget(householdID int32, id int32, category string, amount decimal.Decimal) (*domain.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	updated, err := s.budgetRepo.Update(&domain.Budget{
		ID:          id,
		HouseholdID: householdID,
		Category:    category,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget soft deletes a budget
func (s *BudgetService) DeleteBudget(householdID int32, id int32) error {
	if err := s.budgetRepo.SoftDelete(householdID, id); err != nil {
		return err
	}
	s.publisher.Publish(householdID, websocket.BudgetUpdated(map[string]int32{"id": id}))
	return nil
}
