package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrHouseholdNotFound   = errors.New("household not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrObligationNotFound  = errors.New("recurring obligation not found")
	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryTooLong     = errors.New("category exceeds maximum length")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidKind         = errors.New("invalid kind")
)

// Validation constants
const (
	MaxTitleLength    = 255
	MaxNameLength     = 255
	MaxCategoryLength = 100
	MaxNotesLength    = 1000
)
