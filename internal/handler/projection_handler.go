package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ProjectionHandler handles net-worth projection HTTP requests
type ProjectionHandler struct {
	snapshotService   *service.SnapshotService
	projectionService *service.ProjectionService
}

// NewProjectionHandler creates a new ProjectionHandler
func NewProjectionHandler(snapshotService *service.SnapshotService, projectionService *service.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{
		snapshotService:   snapshotService,
		projectionService: projectionService,
	}
}

// ProjectionRequest represents the projection request body. All scenario
// fields are optional; an empty scenario projects the baseline.
type ProjectionRequest struct {
	Scenario domain.Scenario `json:"scenario"`
	Horizons []int           `json:"horizons,omitempty"`
}

// ProjectionResponse represents projections in API responses, ordered by
// horizon
type ProjectionResponse struct {
	Baseline    *domain.FinancialSnapshot `json:"baseline"`
	Projections []domain.Projection       `json:"projections"`
}

// Project builds the current snapshot and projects it under a scenario
// POST /projections
func (h *ProjectionHandler) Project(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req ProjectionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	horizons := req.Horizons
	if len(horizons) == 0 {
		horizons = domain.DefaultHorizons
	}
	for _, horizon := range horizons {
		if horizon < 0 || horizon > 100 {
			return NewValidationError(c, "Invalid horizons", []ValidationError{
				{Field: "horizons", Message: "Horizons must be between 0 and 100 years"},
			})
		}
	}

	snapshot, err := h.snapshotService.BuildSnapshot(householdID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to build snapshot for projection")
		return NewInternalError(c, "Failed to build snapshot")
	}

	byHorizon := h.projectionService.Project(snapshot, req.Scenario, horizons)

	projections := make([]domain.Projection, 0, len(byHorizon))
	for _, projection := range byHorizon {
		projections = append(projections, projection)
	}
	sort.Slice(projections, func(i, j int) bool {
		return projections[i].YearsAhead < projections[j].YearsAhead
	})

	return c.JSON(http.StatusOK, ProjectionResponse{
		Baseline:    snapshot,
		Projections: projections,
	})
}
