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
)

// SnapshotHandler handles financial snapshot HTTP requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// GetCurrent builds the snapshot for the current calendar month
// GET /snapshots/current
func (h *SnapshotHandler) GetCurrent(c echo.Context) error {
	return h.build(c, time.Now().UTC())
}

// GetByYearMonth builds the snapshot for a specific calendar month
// GET /snapshots/:year/:month
func (h *SnapshotHandler) GetByYearMonth(c echo.Context) error {
	var year, month int32
	if _, err := parseIntParam(c.Param("year"), &year); err != nil || year < 1970 || year > 2200 {
		return NewValidationError(c, "Invalid year", nil)
	}
	if _, err := parseIntParam(c.Param("month"), &month); err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month (must be 1-12)", nil)
	}

	asOf := time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return h.build(c, asOf)
}

func (h *SnapshotHandler) build(c echo.Context, asOf time.Time) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	snapshot, err := h.snapshotService.BuildSnapshot(householdID, asOf)
	if err != nil {
		if errors.Is(err, domain.ErrHouseholdNotFound) {
			return NewNotFoundError(c, "Household not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Time("as_of", asOf).Msg("Failed to build snapshot")
		return NewInternalError(c, "Failed to build snapshot")
	}

	return c.JSON(http.StatusOK, snapshot)
}
