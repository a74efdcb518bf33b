package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated money movement. Amount is signed:
// positive is income, negative is expense. Category may be blank;
// blank-category expenses still count toward totals but are excluded
// from per-category grouping.
type Transaction struct {
	ID          int32           `json:"id"`
	HouseholdID int32           `json:"householdId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Merchant    *string         `json:"merchant,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	ReceiptID   *string         `json:"receiptId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

// IsIncome reports whether the transaction adds money.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction removes money.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type UpdateTransactionData struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Merchant *string
	Notes    *string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(householdID int32, id int32) (*Transaction, error)
	GetByHousehold(householdID int32, filters *TransactionFilters) (*PaginatedTransactions, error)
	ListByDateRange(householdID int32, start, end time.Time) ([]*Transaction, error)
	Update(householdID int32, id int32, data *UpdateTransactionData) (*Transaction, error)
	SetReceipt(householdID int32, id int32, receiptID *string) (*Transaction, error)
	SoftDelete(householdID int32, id int32) error
}
