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

// InvestmentHandler handles investment HTTP requests
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// InvestmentRequest represents the create/update investment request body
type InvestmentRequest struct {
	Name         string `json:"name"`
	AssetType    string `json:"assetType"`
	CurrentValue string `json:"currentValue"`
	CostBasis    string `json:"costBasis"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID           int32  `json:"id"`
	HouseholdID  int32  `json:"householdId"`
	Name         string `json:"name"`
	AssetType    string `json:"assetType"`
	CurrentValue string `json:"currentValue"`
	CostBasis    string `json:"costBasis"`
}

// PortfolioResponse summarizes all holdings
type PortfolioResponse struct {
	Investments []InvestmentResponse `json:"investments"`
	TotalValue  string               `json:"totalValue"`
	TotalReturn string               `json:"totalReturn"`
}

func toInvestmentResponse(inv *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:           inv.ID,
		HouseholdID:  inv.HouseholdID,
		Name:         inv.Name,
		AssetType:    inv.AssetType,
		CurrentValue: inv.CurrentValue.String(),
		CostBasis:    inv.CostBasis.String(),
	}
}

func (h *InvestmentHandler) parseRequest(c echo.Context, req *InvestmentRequest) (*service.CreateInvestmentInput, error) {
	currentValue, err := decimal.NewFromString(req.CurrentValue)
	if err != nil {
		return nil, NewValidationError(c, "Invalid currentValue", []ValidationError{
			{Field: "currentValue", Message: "Must be a valid decimal number"},
		})
	}
	costBasis, err := decimal.NewFromString(req.CostBasis)
	if err != nil {
		return nil, NewValidationError(c, "Invalid costBasis", []ValidationError{
			{Field: "costBasis", Message: "Must be a valid decimal number"},
		})
	}
	return &service.CreateInvestmentInput{
		Name:         req.Name,
		AssetType:    req.AssetType,
		CurrentValue: currentValue,
		CostBasis:    costBasis,
	}, nil
}

func investmentValidationError(c echo.Context, err error) error {
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
			{Field: "currentValue", Message: "Values must be zero or positive"},
		})
	}
	return nil
}

// CreateInvestment creates a new investment holding
// POST /investments
func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req InvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, herr := h.parseRequest(c, &req)
	if herr != nil {
		return herr
	}

	investment, err := h.investmentService.CreateInvestment(householdID, *input)
	if err != nil {
		if ve := investmentValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create investment")
		return NewInternalError(c, "Failed to create investment")
	}

	log.Info().Int32("household_id", householdID).Int32("investment_id", investment.ID).Msg("Investment created")

	return c.JSON(http.StatusCreated, toInvestmentResponse(investment))
}

// GetInvestments lists all holdings with portfolio totals
// GET /investments
func (h *InvestmentHandler) GetInvestments(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	investments, err := h.investmentService.ListInvestments(householdID)
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to list investments")
		return NewInternalError(c, "Failed to list investments")
	}

	response := PortfolioResponse{
		Investments: make([]InvestmentResponse, len(investments)),
		TotalValue:  domain.PortfolioValue(investments).String(),
		TotalReturn: domain.PortfolioReturn(investments).String(),
	}
	for i, inv := range investments {
		response.Investments[i] = toInvestmentResponse(inv)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateInvestment updates a holding
// PUT /investments/:id
func (h *InvestmentHandler) UpdateInvestment(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid investment ID", nil)
	}

	var req InvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, herr := h.parseRequest(c, &req)
	if herr != nil {
		return herr
	}

	investment, err := h.investmentService.UpdateInvestment(householdID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		if ve := investmentValidationError(c, err); ve != nil {
			return ve
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("investment_id", id).Msg("Failed to update investment")
		return NewInternalError(c, "Failed to update investment")
	}

	return c.JSON(http.StatusOK, toInvestmentResponse(investment))
}

// DeleteInvestment soft deletes a holding
// DELETE /investments/:id
func (h *InvestmentHandler) DeleteInvestment(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var id int32
	if _, err := parseIntParam(c.Param("id"), &id); err != nil {
		return NewValidationError(c, "Invalid investment ID", nil)
	}

	if err := h.investmentService.DeleteInvestment(householdID, id); err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("investment_id", id).Msg("Failed to delete investment")
		return NewInternalError(c, "Failed to delete investment")
	}

	log.Info().Int32("household_id", householdID).Int32("investment_id", id).Msg("Investment deleted")

	return c.NoContent(http.StatusNoContent)
}
