package service

import (
	"strings"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// InvestmentService handles investment holding business logic
type InvestmentService struct {
	investmentRepo domain.InvestmentRepository
	publisher      websocket.EventPublisher
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(investmentRepo domain.InvestmentRepository, publisher websocket.EventPublisher) *InvestmentService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &InvestmentService{
		investmentRepo: investmentRepo,
		publisher:      publisher,
	}
}

// CreateInvestmentInput holds the input for creating an investment
type CreateInvestmentInput struct {
	Name         string
	AssetType    string
	CurrentValue decimal.Decimal
	CostBasis    decimal.Decimal
}

// CreateInvestment creates a new investment holding with validation
func (s *InvestmentService) CreateInvestment(householdID int32, input CreateInvestmentInput) (*domain.Investment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.CurrentValue.IsNegative() || input.CostBasis.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	created, err := s.investmentRepo.Create(&domain.Investment{
		HouseholdID:  householdID,
		Name:         name,
		AssetType:    strings.TrimSpace(input.AssetType),
		CurrentValue: input.CurrentValue,
		CostBasis:    input.CostBasis,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.InvestmentUpdated(created))
	return created, nil
}

// ListInvestments retrieves all investments for a household
func (s *InvestmentService) ListInvestments(householdID int32) ([]*domain.Investment, error) {
	return s.investmentRepo.ListByHousehold(householdID)
}

// GetInvestmentByID retrieves an investment by ID within a household
func (s *InvestmentService) GetInvestmentByID(householdID int32, id int32) (*domain.Investment, error) {
	return s.investmentRepo.GetByID(householdID, id)
}

// UpdateInvestment updates an investment with validation
func (s *InvestmentService) UpdateInvestment(householdID int32, id int32, input CreateInvestmentInput) (*domain.Investment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.CurrentValue.IsNegative() || input.CostBasis.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	updated, err := s.investmentRepo.Update(&domain.Investment{
		ID:           id,
		HouseholdID:  householdID,
		Name:         name,
		AssetType:    strings.TrimSpace(input.AssetType),
		CurrentValue: input.CurrentValue,
		CostBasis:    input.CostBasis,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.InvestmentUpdated(updated))
	return updated, nil
}

// DeleteInvestment soft deletes an investment
func (s *InvestmentService) DeleteInvestment(householdID int32, id int32) error {
	if err := s.investmentRepo.SoftDelete(householdID, id); err != nil {
		return err
	}
	s.publisher.Publish(householdID, websocket.InvestmentUpdated(map[string]int32{"id": id}))
	return nil
}
