package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a single holding with its current market value and what
// was paid for it.
type Investment struct {
	ID           int32           `json:"id"`
	HouseholdID  int32           `json:"householdId"`
	Name         string          `json:"name"`
	AssetType    string          `json:"assetType"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty"`
}

// PortfolioReturn computes the aggregate return across holdings:
// (sum of current values - sum of cost bases) / sum of cost bases.
// A zero total cost basis yields zero, not a division error.
func PortfolioReturn(investments []*Investment) decimal.Decimal {
	totalValue := decimal.Zero
	totalBasis := decimal.Zero
	for _, inv := range investments {
		totalValue = totalValue.Add(inv.CurrentValue)
		totalBasis = totalBasis.Add(inv.CostBasis)
	}
	if totalBasis.IsZero() {
		return decimal.Zero
	}
	return totalValue.Sub(totalBasis).Div(totalBasis)
}

// PortfolioValue sums current values across holdings.
func PortfolioValue(investments []*Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.CurrentValue)
	}
	return total
}

type InvestmentRepository interface {
	Create(investment *Investment) (*Investment, error)
	GetByID(householdID int32, id int32) (*Investment, error)
	ListByHousehold(householdID int32) ([]*Investment, error)
	Update(investment *Investment) (*Investment, error)
	SoftDelete(householdID int32, id int32) error
}
