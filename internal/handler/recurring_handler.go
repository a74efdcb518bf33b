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

// RecurringHandler handles recurring obligation HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRequest represents the create/update obligation request body
type RecurringRequest struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Amount      string  `json:"amount"`
	Frequency   string  `json:"frequency"`
	Status      *string `json:"status,omitempty"`
	NextDueDate *string `json:"nextDueDate,omitempty"`
}

// RecurringResponse represents an obligation in API responses
type RecurringResponse struct {
	ID            int32   `json:"id"`
	HouseholdID   int32   `json:"householdId"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Amount        string  `json:"amount"`
	Frequency     string  `json:"frequency"`
	Status        string  `json:"status"`
	MonthlyAmount string  `json:"monthlyAmount"`
	NextDueDate   *string `json:"nextDueDate,omitempty"`
}

func toRecurringResponse(ob *domain.RecurringObligation) RecurringResponse {
	resp := RecurringResponse{
		ID:            ob.ID,
		HouseholdID:   ob.HouseholdID,
		Name:          ob.Name,
		Kind:          string(ob.Kind),
		Amount:        ob.Amount.String(),
		Frequency:     string(ob.Frequency),
		Status:        string(ob.Status),
		MonthlyAmount: ob.MonthlyAmount().Round(2).String(),
	}
	if ob.NextDueDate != nil {
		due := ob.NextDueDate.Format("2006-01-02")
		resp.NextDueDate = &due
	}
	return resp
}

func recurringValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Frequency must be one of: weekly, biweekly, monthly, quarterly, annual"},
		})
	case errors.Is(err, domain.ErrInvalidKind):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "kind", Message: "Kind must be one of: bill, subscription"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: active, inactive"},
		})
	}
	return nil
}

func parseNextDueDate(c echo.Context, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := parseDateParam(*raw)
	if err != nil {
		return nil, NewValidationError(c, "Invalid nextDueDate", []ValidationError{
			{Field: "nextDueDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	return &parsed, nil
}

// CreateRecurring creates a new recurring obligation
// POST /recurring
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	nextDueDate, herr := parseNextDueDate(c, req.NextDueDate)
	if herr != nil {
		return herr
	}

	obligation, err := h.recurringService.CreateRecurring(householdID, service.CreateRecurringInput{
		Name:        req.Name,
		Kind:        domain.ObligationKind(req.Kind),
		Amount:      amount,
		Frequency:   domain.Frequency(req.Frequency),
		NextDueDate: nextDueDate,
	})
	if err != nil {
		if ve := recurringValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create recurring obligation")
		return NewInternalError(c, "Failed to create recurring obligation")
	}

	log.Info().Int32("household_id", householdID).Int32("recurring_id", obligation.ID).Str("name", obligation.Name).Msg("Recurring obligation created")

	return c.JSON(http.StatusCreated, toRecurringResponse(obligation))
}

// GetRecurring lists obligations, optionally only active ones
// GET /recurring
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var activeOnly *bool
	switch c.QueryParam("active") {
	case "":
	case "true":
		v := true
		activeOnly = &v
	case "false":
		v := false
		activeOnly = &v
	default:
		return NewValidationError(c, "Invalid active (must be 'true' or 'false')", nil)
	}

	obligations, err := h.recurringService.ListRecurring(householdID, activeOnly)
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to list recurring obligations")
		return NewInternalError(c, "Failed to list recurring obligations")
	}

	response := make([]RecurringResponse, len(obligations))
	for i, ob := range obligations {
		response[i] = toRecurringResponse(ob)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateRecurring updates an obligation
// PUT /recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid recurring obligation ID", nil)
	}

	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	nextDueDate, herr := parseNextDueDate(c, req.NextDueDate)
	if herr != nil {
		return herr
	}

	status := domain.ObligationStatusActive
	if req.Status != nil {
		status = domain.ObligationStatus(*req.Status)
	}

	obligation, err := h.recurringService.UpdateRecurring(householdID, id, service.UpdateRecurringInput{
		Name:        req.Name,
		Kind:        domain.ObligationKind(req.Kind),
		Amount:      amount,
		Frequency:   domain.Frequency(req.Frequency),
		Status:      status,
		NextDueDate: nextDueDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrObligationNotFound) {
			return NewNotFoundError(c, "Recurring obligation not found")
		}
		if ve := recurringValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("recurring_id", id).Msg("Failed to update recurring obligation")
		return NewInternalError(c, "Failed to update recurring obligation")
	}

	return c.JSON(http.StatusOK, toRecurringResponse(obligation))
}

// DeleteRecurring soft deletes an obligation
// DELETE /recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid recurring obligation ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(householdID, id); err != nil {
		if errors.Is(err, domain.ErrObligationNotFound) {
			return NewNotFoundError(c, "Recurring obligation not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("recurring_id", id).Msg("Failed to delete recurring obligation")
		return NewInternalError(c, "Failed to delete recurring obligation")
	}

	log.Info().Int32("household_id", householdID).Int32("recurring_id", id).Msg("Recurring obligation deleted")

	return c.NoContent(http.StatusNoContent)
}
