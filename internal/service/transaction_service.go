package service

import (
	"strings"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Date     *time.Time
	Amount   decimal.Decimal
	Category string
	Merchant *string
	Notes    *string
}

// CreateTransaction creates a new transaction with validation. The
// amount is signed: positive income, negative expense. Zero amounts are
// rejected since they carry no information.
func (s *TransactionService) CreateTransaction(householdID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(input.Category)
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	// Default date to today if not provided
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrInvalidDate
		}
		date = *input.Date
	}

	notes, err := trimOptional(input.Notes, domain.MaxNotesLength, domain.ErrNotesTooLong)
	if err != nil {
		return nil, err
	}
	merchant, err := trimOptional(input.Merchant, domain.MaxNameLength, domain.ErrNameTooLong)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		HouseholdID: householdID,
		Date:        date,
		Amount:      input.Amount,
		Category:    category,
		Merchant:    merchant,
		Notes:       notes,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves transactions for a household with optional filters and pagination
func (s *TransactionService) GetTransactions(householdID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.transactionRepo.GetByHousehold(householdID, filters)
}

// GetTransactionByID retrieves a transaction by ID within a household
func (s *TransactionService) GetTransactionByID(householdID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(householdID, id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Merchant *string
	Notes    *string
}

// UpdateTransaction updates a transaction with validation
func (s *TransactionService) UpdateTransaction(householdID int32, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	category := strings.TrimSpace(input.Category)
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	notes, err := trimOptional(input.Notes, domain.MaxNotesLength, domain.ErrNotesTooLong)
	if err != nil {
		return nil, err
	}
	merchant, err := trimOptional(input.Merchant, domain.MaxNameLength, domain.ErrNameTooLong)
	if err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(householdID, id, &domain.UpdateTransactionData{
		Date:     input.Date,
		Amount:   input.Amount,
		Category: category,
		Merchant: merchant,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction soft deletes a transaction
func (s *TransactionService) DeleteTransaction(householdID int32, id int32) error {
	if err := s.transactionRepo.SoftDelete(householdID, id); err != nil {
		return err
	}
	s.publisher.Publish(householdID, websocket.TransactionDeleted(map[string]int32{"id": id}))
	return nil
}

// trimOptional trims an optional string, dropping it entirely when blank.
func trimOptional(value *string, maxLen int, tooLong error) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxLen {
		return nil, tooLong
	}
	return &trimmed, nil
}
