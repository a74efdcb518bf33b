package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, household_id, date, amount, category, merchant, notes, receipt_id, created_at, updated_at, deleted_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx        domain.Transaction
		date      pgtype.Date
		amount    pgtype.Numeric
		merchant  pgtype.Text
		notes     pgtype.Text
		receiptID pgtype.Text
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&tx.ID, &tx.HouseholdID, &date, &amount, &tx.Category,
		&merchant, &notes, &receiptID, &tx.CreatedAt, &tx.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	tx.Date = pgDateToTime(date)
	tx.Amount = pgNumericToDecimal(amount)
	tx.Merchant = pgTextToStringPtr(merchant)
	tx.Notes = pgTextToStringPtr(notes)
	tx.ReceiptID = pgTextToStringPtr(receiptID)
	tx.DeletedAt = pgTimestampToTimePtr(deletedAt)
	return &tx, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (household_id, date, amount, category, merchant, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		transaction.HouseholdID, timeToPgDate(transaction.Date), amount,
		transaction.Category, stringPtrToPgText(transaction.Merchant),
		stringPtrToPgText(transaction.Notes))
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID within a household
func (r *TransactionRepository) GetByID(householdID int32, id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	return scanTransaction(row)
}

// GetByHousehold retrieves a page of transactions matching the filters,
// newest first
func (r *TransactionRepository) GetByHousehold(householdID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	where := `household_id = $1 AND deleted_at IS NULL`
	args := []interface{}{householdID}

	if filters.StartDate != nil {
		args = append(args, timeToPgDate(*filters.StartDate))
		where += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if filters.EndDate != nil {
		args = append(args, timeToPgDate(*filters.EndDate))
		where += fmt.Sprintf(` AND date < $%d`, len(args))
	}
	if filters.Category != nil {
		args = append(args, *filters.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	var totalItems int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+where+
			fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListByDateRange retrieves all transactions with date in [start, end)
func (r *TransactionRepository) ListByDateRange(householdID int32, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE household_id = $1 AND deleted_at IS NULL
		   AND date >= $2 AND date < $3
		 ORDER BY date, id`,
		householdID, timeToPgDate(start), timeToPgDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// Update updates a transaction
func (r *TransactionRepository) Update(householdID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET date = $3, amount = $4, category = $5, merchant = $6, notes = $7, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		householdID, id, timeToPgDate(data.Date), amount, data.Category,
		stringPtrToPgText(data.Merchant), stringPtrToPgText(data.Notes))
	return scanTransaction(row)
}

// SetReceipt links or unlinks a receipt on a transaction
func (r *TransactionRepository) SetReceipt(householdID int32, id int32, receiptID *string) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET receipt_id = $3, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		householdID, id, stringPtrToPgText(receiptID))
	return scanTransaction(row)
}

// SoftDelete soft deletes a transaction
func (r *TransactionRepository) SoftDelete(householdID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions SET deleted_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
