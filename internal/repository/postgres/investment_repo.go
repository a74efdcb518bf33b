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

// InvestmentRepository implements domain.InvestmentRepository using PostgreSQL
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

const investmentColumns = `id, household_id, name, asset_type, current_value, cost_basis, created_at, updated_at, deleted_at`

func scanInvestment(row pgx.Row) (*domain.Investment, error) {
	var (
		inv          domain.Investment
		currentValue pgtype.Numeric
		costBasis    pgtype.Numeric
		deletedAt    pgtype.Timestamptz
	)
	err := row.Scan(&inv.ID, &inv.HouseholdID, &inv.Name, &inv.AssetType,
		&currentValue, &costBasis, &inv.CreatedAt, &inv.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, err
	}
	inv.CurrentValue = pgNumericToDecimal(currentValue)
	inv.CostBasis = pgNumericToDecimal(costBasis)
	inv.DeletedAt = pgTimestampToTimePtr(deletedAt)
	return &inv, nil
}

// Create creates a new investment
func (r *InvestmentRepository) Create(investment *domain.Investment) (*domain.Investment, error) {
	ctx := context.Background()
	currentValue, err := decimalToPgNumeric(investment.CurrentValue)
	if err != nil {
		return nil, fmt.Errorf("invalid current value: %w", err)
	}
	costBasis, err := decimalToPgNumeric(investment.CostBasis)
	if err != nil {
		return nil, fmt.Errorf("invalid cost basis: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO investments (household_id, name, asset_type, current_value, cost_basis)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+investmentColumns,
		investment.HouseholdID, investment.Name, investment.AssetType, currentValue, costBasis)
	return scanInvestment(row)
}

// GetByID retrieves an investment by ID within a household
func (r *InvestmentRepository) GetByID(householdID int32, id int32) (*domain.Investment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM investments
		 WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	return scanInvestment(row)
}

// ListByHousehold retrieves all investments for a household
func (r *InvestmentRepository) ListByHousehold(householdID int32) ([]*domain.Investment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+investmentColumns+` FROM investments
		 WHERE household_id = $1 AND deleted_at IS NULL
		 ORDER BY name, id`,
		householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	investments := []*domain.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// Update updates an investment
func (r *InvestmentRepository) Update(investment *domain.Investment) (*domain.Investment, error) {
	ctx := context.Background()
	currentValue, err := decimalToPgNumeric(investment.CurrentValue)
	if err != nil {
		return nil, fmt.Errorf("invalid current value: %w", err)
	}
	costBasis, err := decimalToPgNumeric(investment.CostBasis)
	if err != nil {
		return nil, fmt.Errorf("invalid cost basis: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE investments
		SET name = $3, asset_type = $4, current_value = $5, cost_basis = $6, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+investmentColumns,
		investment.HouseholdID, investment.ID, investment.Name, investment.AssetType,
		currentValue, costBasis)
	return scanInvestment(row)
}

// SoftDelete soft deletes an investment
func (r *InvestmentRepository) SoftDelete(householdID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE investments SET deleted_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}
