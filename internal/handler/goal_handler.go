package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update goal request body
type GoalRequest struct {
	Title               string  `json:"title"`
	TargetAmount        string  `json:"targetAmount"`
	CurrentAmount       string  `json:"currentAmount"`
	TargetDate          string  `json:"targetDate"`
	MonthlyContribution string  `json:"monthlyContribution"`
	Status              *string `json:"status,omitempty"`
	GoalType            *string `json:"goalType,omitempty"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID                  int32   `json:"id"`
	HouseholdID         int32   `json:"householdId"`
	Title               string  `json:"title"`
	TargetAmount        string  `json:"targetAmount"`
	CurrentAmount       string  `json:"currentAmount"`
	TargetDate          string  `json:"targetDate"`
	MonthlyContribution string  `json:"monthlyContribution"`
	Status              string  `json:"status"`
	GoalType            *string `json:"goalType,omitempty"`
}

func toGoalResponse(goal *domain.FinancialGoal) GoalResponse {
	return GoalResponse{
		ID:                  goal.ID,
		HouseholdID:         goal.HouseholdID,
		Title:               goal.Title,
		TargetAmount:        goal.TargetAmount.String(),
		CurrentAmount:       goal.CurrentAmount.String(),
		TargetDate:          goal.TargetDate.Format("2006-01-02"),
		MonthlyContribution: goal.MonthlyContribution.String(),
		Status:              string(goal.Status),
		GoalType:            goal.GoalType,
	}
}

type goalAmounts struct {
	target       decimal.Decimal
	current      decimal.Decimal
	contribution decimal.Decimal
	targetDate   time.Time
}

func parseGoalRequest(c echo.Context, req *GoalRequest) (*goalAmounts, error) {
	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid targetAmount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}
	current := decimal.Zero
	if req.CurrentAmount != "" {
		current, err = decimal.NewFromString(req.CurrentAmount)
		if err != nil {
			return nil, NewValidationError(c, "Invalid currentAmount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
	}
	contribution := decimal.Zero
	if req.MonthlyContribution != "" {
		contribution, err = decimal.NewFromString(req.MonthlyContribution)
		if err != nil {
			return nil, NewValidationError(c, "Invalid monthlyContribution", []ValidationError{
				{Field: "monthlyContribution", Message: "Must be a valid decimal number"},
			})
		}
	}
	targetDate, err := parseDateParam(req.TargetDate)
	if err != nil {
		return nil, NewValidationError(c, "Invalid targetDate", []ValidationError{
			{Field: "targetDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	return &goalAmounts{target: target, current: current, contribution: contribution, targetDate: targetDate}, nil
}

func goalValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title is required"},
		})
	case errors.Is(err, domain.ErrTitleTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "targetAmount", Message: "Amounts must be zero or positive"},
		})
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "targetDate", Message: "Target date is required"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: active, completed, abandoned"},
		})
	}
	return nil
}

// CreateGoal creates a new savings goal
// POST /goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	parsed, herr := parseGoalRequest(c, &req)
	if herr != nil {
		return herr
	}

	goal, err := h.goalService.CreateGoal(householdID, service.CreateGoalInput{
		Title:               req.Title,
		TargetAmount:        parsed.target,
		CurrentAmount:       parsed.current,
		TargetDate:          parsed.targetDate,
		MonthlyContribution: parsed.contribution,
		GoalType:            req.GoalType,
	})
	if err != nil {
		if ve := goalValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	log.Info().Int32("household_id", householdID).Int32("goal_id", goal.ID).Str("title", goal.Title).Msg("Goal created")

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals lists goals, optionally filtered by status
// GET /goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var status *domain.GoalStatus
	if s := c.QueryParam("status"); s != "" {
		goalStatus := domain.GoalStatus(s)
		status = &goalStatus
	}

	goals, err := h.goalService.ListGoals(householdID, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return NewValidationError(c, "Invalid status (must be 'active', 'completed', or 'abandoned')", nil)
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to list goals")
		return NewInternalError(c, "Failed to list goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}

	return c.JSON(http.StatusOK, response)
}

// GetGoalAnalysis evaluates a goal's trajectory as of today
// GET /goals/:id/analysis
func (h *GoalHandler) GetGoalAnalysis(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	goal, err := h.goalService.GetGoalByID(householdID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("goal_id", id).Msg("Failed to get goal")
		return NewInternalError(c, "Failed to get goal")
	}

	analysis := h.goalService.EvaluateGoal(goal, time.Now().UTC())
	return c.JSON(http.StatusOK, analysis)
}

// UpdateGoal updates a goal
// PUT /goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	parsed, herr := parseGoalRequest(c, &req)
	if herr != nil {
		return herr
	}

	status := domain.GoalStatusActive
	if req.Status != nil {
		status = domain.GoalStatus(*req.Status)
	}

	goal, err := h.goalService.UpdateGoal(householdID, id, service.UpdateGoalInput{
		Title:               req.Title,
		TargetAmount:        parsed.target,
		CurrentAmount:       parsed.current,
		TargetDate:          parsed.targetDate,
		MonthlyContribution: parsed.contribution,
		Status:              status,
		GoalType:            req.GoalType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		if ve := goalValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("goal_id", id).Msg("Failed to update goal")
		return NewInternalError(c, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal soft deletes a goal
// DELETE /goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(householdID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("goal_id", id).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	log.Info().Int32("household_id", householdID).Int32("goal_id", id).Msg("Goal deleted")

	return c.NoContent(http.StatusNoContent)
}
