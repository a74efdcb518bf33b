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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, household_id, title, target_amount, current_amount, target_date, monthly_contribution, status, goal_type, created_at, updated_at, deleted_at`

func scanGoal(row pgx.Row) (*domain.FinancialGoal, error) {
	var (
		goal         domain.FinancialGoal
		target       pgtype.Numeric
		current      pgtype.Numeric
		targetDate   pgtype.Date
		contribution pgtype.Numeric
		status       string
		goalType     pgtype.Text
		deletedAt    pgtype.Timestamptz
	)
	err := row.Scan(&goal.ID, &goal.HouseholdID, &goal.Title, &target, &current,
		&targetDate, &contribution, &status, &goalType,
		&goal.CreatedAt, &goal.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	goal.TargetAmount = pgNumericToDecimal(target)
	goal.CurrentAmount = pgNumericToDecimal(current)
	goal.TargetDate = pgDateToTime(targetDate)
	goal.MonthlyContribution = pgNumericToDecimal(contribution)
	goal.Status = domain.GoalStatus(status)
	goal.GoalType = pgTextToStringPtr(goalType)
	goal.DeletedAt = pgTimestampToTimePtr(deletedAt)
	return &goal, nil
}

// Create creates a new financial goal
func (r *GoalRepository) Create(goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	ctx := context.Background()
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}
	contribution, err := decimalToPgNumeric(goal.MonthlyContribution)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly contribution: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO financial_goals (household_id, title, target_amount, current_amount, target_date, monthly_contribution, status, goal_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+goalColumns,
		goal.HouseholdID, goal.Title, target, current, timeToPgDate(goal.TargetDate),
		contribution, string(goal.Status), stringPtrToPgText(goal.GoalType))
	return scanGoal(row)
}

// GetByID retrieves a goal by ID within a household
func (r *GoalRepository) GetByID(householdID int32, id int32) (*domain.FinancialGoal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM financial_goals
		 WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	return scanGoal(row)
}

// ListByHousehold retrieves goals for a household, optionally filtered by status
func (r *GoalRepository) ListByHousehold(householdID int32, status *domain.GoalStatus) ([]*domain.FinancialGoal, error) {
	ctx := context.Background()

	query := `SELECT ` + goalColumns + ` FROM financial_goals
		 WHERE household_id = $1 AND deleted_at IS NULL`
	args := []interface{}{householdID}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY target_date, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []*domain.FinancialGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update updates a goal
func (r *GoalRepository) Update(goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	ctx := context.Background()
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}
	contribution, err := decimalToPgNumeric(goal.MonthlyContribution)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly contribution: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE financial_goals
		SET title = $3, target_amount = $4, current_amount = $5, target_date = $6,
		    monthly_contribution = $7, status = $8, goal_type = $9, updated_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+goalColumns,
		goal.HouseholdID, goal.ID, goal.Title, target, current,
		timeToPgDate(goal.TargetDate), contribution, string(goal.Status),
		stringPtrToPgText(goal.GoalType))
	return scanGoal(row)
}

// SoftDelete soft deletes a goal
func (r *GoalRepository) SoftDelete(householdID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE financial_goals SET deleted_at = now()
		WHERE household_id = $1 AND id = $2 AND deleted_at IS NULL`,
		householdID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
