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

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

const recurringColumns = `id, household_id, name, kind, amount, frequency, status, next_due_date, created_at, updated_at, deleted_at`

func scanRecurring(row pgx.Row) (*domain.RecurringObligation, error) {
	var (
		ob          domain.RecurringObligation
		kind        string
		amount      pgtype.Numeric
		frequency   string
		status      string
		nextDueDate pgtype.Date
		deletedAt   pgtype.Timestamptz
	)
	err := row.Scan(&ob.ID, &ob.HouseholdID, &ob.Name, &kind, &amount,
		&frequency, &status, &nextDueDate, &ob.CreatedAt, &ob.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrObligationNotFound
		}
		return nil, err
	}
	ob.Kind = domain.ObligationKind(kind)
	ob.Amount = pgNumericToDecimal(amount)
	ob.Frequency = domain.Frequency(frequency)
	ob.Status = domain.ObligationStatus(status)
	ob.NextDueDate = pgDateToTimePtr(nextDueDate)
	ob.DeletedAt = pgTimestampToTimePtr(deletedAt)
	return &ob, nil
}

// Create creates a new recurring obligation
func (r *RecurringRepository) Create(obligation *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(obligation.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_obligations (household_id, name, kind, amount, frequency, status, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+recurringColumns,
		obligation.HouseholdID, obligation.Name, string(obligation.Kind), amount,
		string(obligation.Frequency), string(obligation.Status),
		timePtrToPgDate(obligation.NextDueDate))
	return scanRecurring(row)
}

// GetByID retrieves an obligation by ID within a household
func (r *RecurringRepository) GetByID(householdID int32, id int32) (*domain.RecurringObligation, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_obligations
		 WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	return scanRecurring(row)
}

// ListByHousehold retrieves obligations for a household, optionally
// filtered to active or inactive only
func (r *RecurringRepository) ListByHousehold(householdID int32, activeOnly *bool) ([]*domain.RecurringObligation, error) {
	ctx := context.Background()

	query := `SELECT ` + recurringColumns + ` FROM recurring_obligations
		 WHERE household_id = $1 AND deleted_at IS NULL`
	args := []interface{}{householdID}
	if activeOnly != nil {
		status := domain.ObligationStatusInactive
		if *activeOnly {
			status = domain.ObligationStatusActive
		}
		args = append(args, string(status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	obligations := []*domain.RecurringObligation{}
	for rows.Next() {
		ob, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, ob)
	}
	return obligations, rows.Err()
}

// Update updates an obligation
func (r *RecurringRepository) Update(obligation *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(obligation.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE recurring_obligations
		SET name = $3, kind = $4, amount = $5, frequency = $6, status = $7,
		    next_due_date = $8, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+recurringColumns,
		obligation.HouseholdID, obligation.ID, obligation.Name, string(obligation.Kind),
		amount, string(obligation.Frequency), string(obligation.Status),
		timePtrToPgDate(obligation.NextDueDate))
	return scanRecurring(row)
}

// SoftDelete soft deletes an obligation
func (r *RecurringRepository) SoftDelete(householdID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_obligations SET deleted_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObligationNotFound
	}
	return nil
}
