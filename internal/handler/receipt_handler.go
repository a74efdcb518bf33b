package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt attaches a receipt image to a transaction
// POST /transactions/:id/receipt
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	var transactionID int32
	if _, err := parseIntParam(c.Param("id"), &transactionID); err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	metadata, err := h.receiptService.Attach(c.Request().Context(), householdID, transactionID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrReceiptFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrReceiptData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File is not a valid image"},
			})
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("transaction_id", transactionID).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	log.Info().Int32("household_id", householdID).Int32("transaction_id", transactionID).Str("receipt_id", metadata.ID).Msg("Receipt uploaded")

	return c.JSON(http.StatusCreated, metadata)
}

// GetReceiptURLs returns presigned URLs for a transaction's receipt
// GET /transactions/:id/receipt
func (h *ReceiptHandler) GetReceiptURLs(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewUnavailableError(c, "Receipt storage is not configured")
	}

	var transactionID int32
	if _, err := parseIntParam(c.Param("id"), &transactionID); err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	urls, err := h.receiptService.URLs(c.Request().Context(), householdID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrReceiptNotFound) {
			return NewNotFoundError(c, "Transaction has no receipt")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("transaction_id", transactionID).Msg("Failed to generate receipt URLs")
		return NewInternalError(c, "Failed to generate receipt URLs")
	}

	return c.JSON(http.StatusOK, urls)
}

// DeleteReceipt removes a transaction's receipt
// DELETE /transactions/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewUnavailableError(c, "Receipt storage is not configured")
	}

	var transactionID int32
	if _, err := parseIntParam(c.Param("id"), &transactionID); err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.receiptService.Detach(c.Request().Context(), householdID, transactionID); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Int32("transaction_id", transactionID).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	log.Info().Int32("household_id", householdID).Int32("transaction_id", transactionID).Msg("Receipt deleted")

	return c.NoContent(http.StatusNoContent)
}
