package domain

import (
	"time"

	"github.com/google/uuid"
)

// Household is the tenancy boundary: every financial record belongs to
// exactly one household.
type Household struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HouseholdRepository interface {
	GetByID(id int32) (*Household, error)
	GetByUserID(userID uuid.UUID) (*Household, error)
	GetByUserAuth0ID(auth0ID string) (*Household, error)
	Create(household *Household) (*Household, error)
}
