package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, household_id, category, amount, created_at, updated_at, deleted_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget    domain.Budget
		amount    pgtype.Numeric
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&budget.ID, &budget.HouseholdID, &budget.Category, &amount,
		&budget.CreatedAt, &budget.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	budget.Amount = pgNumericToDecimal(amount)
	budget.DeletedAt = pgTimestampToTimePtr(deletedAt)
	return &budget, nil
}

// Create creates a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (household_id, category, amount)
		VALUES ($1, $2, $3)
		RETURNING `+budgetColumns,
		budget.HouseholdID, budget.Category, amount)
	return scanBudget(row)
}

// GetByID retrieves a budget by ID within a household
func (r *BudgetRepository) GetByID(householdID int32, id int32) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	return scanBudget(row)
}

// ListByHousehold retrieves all budgets for a household
func (r *BudgetRepository) ListByHousehold(householdID int32) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE household_id = $1 AND deleted_at IS NULL
		 ORDER BY category`,
		householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []*domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update updates a budget's category and amount
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET category = $3, amount = $4, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+budgetColumns,
		budget.HouseholdID, budget.ID, budget.Category, amount)
	return scanBudget(row)
}

// SoftDelete soft deletes a budget
func (r *BudgetRepository) SoftDelete(householdID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets SET deleted_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
