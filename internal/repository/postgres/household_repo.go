package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
)

// HouseholdRepository implements domain.HouseholdRepository using PostgreSQL
type HouseholdRepository struct {
	pool *pgxpool.Pool
}

// NewHouseholdRepository creates a new HouseholdRepository
func NewHouseholdRepository(pool *pgxpool.Pool) *HouseholdRepository {
	return &HouseholdRepository{pool: pool}
}

const householdColumns = `id, user_id, name, created_at, updated_at`

func scanHousehold(row pgx.Row) (*domain.Household, error) {
	var hh domain.Household
	err := row.Scan(&hh.ID, &hh.UserID, &hh.Name, &hh.CreatedAt, &hh.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &hh, nil
}

// GetByID retrieves a household by ID
func (r *HouseholdRepository) GetByID(id int32) (*domain.Household, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+householdColumns+` FROM households WHERE id = $1`, id)
	return scanHousehold(row)
}

// GetByUserID retrieves the household owned by a user
func (r *HouseholdRepository) GetByUserID(userID uuid.UUID) (*domain.Household, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+householdColumns+` FROM households WHERE user_id = $1`, userID)
	return scanHousehold(row)
}

// GetByUserAuth0ID retrieves the household owned by the user with the
// given Auth0 subject
func (r *HouseholdRepository) GetByUserAuth0ID(auth0ID string) (*domain.Household, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT h.id, h.user_id, h.name, h.created_at, h.updated_at
		FROM households h
		JOIN users u ON u.id = h.user_id
		WHERE u.auth0_id = $1 AND u.deleted_at IS NULL`, auth0ID)
	return scanHousehold(row)
}

// Create creates a new household
func (r *HouseholdRepository) Create(household *domain.Household) (*domain.Household, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO households (user_id, name)
		VALUES ($1, $2)
		RETURNING `+householdColumns,
		household.UserID, household.Name)
	return scanHousehold(row)
}
