package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID          int32  `json:"id"`
	HouseholdID int32  `json:"householdId"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:          budget.ID,
		HouseholdID: budget.HouseholdID,
		Category:    budget.Category,
		Amount:      budget.Amount.String(),
	}
}

func budgetValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrCategoryTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be zero or positive"},
		})
	}
	return nil
}

// CreateBudget creates a new budget
// POST /budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(householdID, req.Category, amount)
	if err != nil {
		if ve := budgetValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	log.Info().Int32("household_id", householdID).Int32("budget_id", budget.ID).Str("category", budget.Category).Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets lists all budgets for the household
// GET /budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	budgets, err := h.budgetService.ListBudgets(householdID)
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateBudget updates a budget
// PUT /budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpdateBudget(householdID, id, req.Category, amount)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if ve := budgetValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("budget_id", id).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget soft deletes a budget
// DELETE /budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(householdID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("budget_id", id).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Int32("household_id", householdID).Int32("budget_id", id).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}
