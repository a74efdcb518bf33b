package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AdviceHandler handles AI advice HTTP requests
type AdviceHandler struct {
	snapshotService *service.SnapshotService
	advisorService  *service.AdvisorService
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(snapshotService *service.SnapshotService, advisorService *service.AdvisorService) *AdviceHandler {
	return &AdviceHandler{
		snapshotService: snapshotService,
		advisorService:  advisorService,
	}
}

// GetAdvice builds the current month's snapshot and asks the advisor
// for commentary on it
// GET /advice
func (h *AdviceHandler) GetAdvice(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	snapshot, err := h.snapshotService.BuildSnapshot(householdID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to build snapshot for advice")
		return NewInternalError(c, "Failed to build snapshot")
	}

	advice, err := h.advisorService.Advise(c.Request().Context(), snapshot)
	if err != nil {
		if errors.Is(err, service.ErrAdvisorDisabled) {
			return NewUnavailableError(c, "Advisor is not configured")
		}
		if errors.Is(err, service.ErrAdvisorResponse) {
			log.Warn().Int32("household_id", householdID).Msg("Advisor returned unusable response")
			return NewUnavailableError(c, "Advisor returned an unusable response")
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to get advice")
		return NewUnavailableError(c, "Advisor is temporarily unavailable")
	}

	return c.JSON(http.StatusOK, advice)
}
