package service

import (
	"strings"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/util"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// RecurringService handles recurring obligation business logic
type RecurringService struct {
	recurringRepo domain.RecurringRepository
	publisher     websocket.EventPublisher
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(recurringRepo domain.RecurringRepository, publisher websocket.EventPublisher) *RecurringService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &RecurringService{
		recurringRepo: recurringRepo,
		publisher:     publisher,
	}
}

// CreateRecurringInput holds the input for creating a recurring obligation
type CreateRecurringInput struct {
	Name        string
	Kind        domain.ObligationKind
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	NextDueDate *time.Time
}

// CreateRecurring creates a new recurring obligation with validation
func (s *RecurringService) CreateRecurring(householdID int32, input CreateRecurringInput) (*domain.RecurringObligation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !validFrequency(input.Frequency) {
		return nil, domain.ErrInvalidFrequency
	}
	if !validKind(input.Kind) {
		return nil, domain.ErrInvalidKind
	}

	created, err := s.recurringRepo.Create(&domain.RecurringObligation{
		HouseholdID: householdID,
		Name:        name,
		Kind:        input.Kind,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		Status:      domain.ObligationStatusActive,
		NextDueDate: input.NextDueDate,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.RecurringCreated(created))
	return created, nil
}

// ListRecurring retrieves obligations for a household, optionally only
// active ones. Stale due dates are rolled forward to the next occurrence
// before returning; the stored date is left untouched.
func (s *RecurringService) ListRecurring(householdID int32, activeOnly *bool) ([]*domain.RecurringObligation, error) {
	obligations, err := s.recurringRepo.ListByHousehold(householdID, activeOnly)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, obligation := range obligations {
		obligation.NextDueDate = NextDueOn(obligation, now)
	}
	return obligations, nil
}

// NextDueOn returns the obligation's next due date on or after asOf. A
// past date advances by the obligation's cadence; for month-based
// cadences the anchor day is preserved across short months, so a day-31
// anchor lands on Feb 28/29 and returns to the 31st in March.
func NextDueOn(obligation *domain.RecurringObligation, asOf time.Time) *time.Time {
	if obligation.NextDueDate == nil {
		return nil
	}
	due := *obligation.NextDueDate
	if !due.Before(asOf) {
		return &due
	}

	switch obligation.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		step := 7
		if obligation.Frequency == domain.FrequencyBiweekly {
			step = 14
		}
		for due.Before(asOf) {
			due = due.AddDate(0, 0, step)
		}
	case domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyAnnual:
		stepMonths := 1
		switch obligation.Frequency {
		case domain.FrequencyQuarterly:
			stepMonths = 3
		case domain.FrequencyAnnual:
			stepMonths = 12
		}
		anchorDay := due.Day()
		for due.Before(asOf) {
			next := time.Date(due.Year(), due.Month()+time.Month(stepMonths), 1, 0, 0, 0, 0, time.UTC)
			due = util.CalculateActualDate(next.Year(), next.Month(), anchorDay)
		}
	default:
		return &due
	}

	return &due
}

// GetRecurringByID retrieves an obligation by ID within a household
func (s *RecurringService) GetRecurringByID(householdID int32, id int32) (*domain.RecurringObligation, error) {
	return s.recurringRepo.GetByID(householdID, id)
}

// UpdateRecurringInput holds the input for updating a recurring obligation
type UpdateRecurringInput struct {
	Name        string
	Kind        domain.ObligationKind
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	Status      domain.ObligationStatus
	NextDueDate *time.Time
}

// UpdateRecurring updates an obligation with validation
func (s *RecurringService) UpdateRecurring(householdID int32, id int32, input UpdateRecurringInput) (*domain.RecurringObligation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !validFrequency(input.Frequency) {
		return nil, domain.ErrInvalidFrequency
	}
	if !validKind(input.Kind) {
		return nil, domain.ErrInvalidKind
	}
	if input.Status != domain.ObligationStatusActive && input.Status != domain.ObligationStatusInactive {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.recurringRepo.Update(&domain.RecurringObligation{
		ID:          id,
		HouseholdID: householdID,
		Name:        name,
		Kind:        input.Kind,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		Status:      input.Status,
		NextDueDate: input.NextDueDate,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.RecurringUpdated(updated))
	return updated, nil
}

// DeleteRecurring soft deletes an obligation
func (s *RecurringService) DeleteRecurring(householdID int32, id int32) error {
	if err := s.recurringRepo.SoftDelete(householdID, id); err != nil {
		return err
	}
	s.publisher.Publish(householdID, websocket.RecurringDeleted(map[string]int32{"id": id}))
	return nil
}

func validFrequency(f domain.Frequency) bool {
	switch f {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly,
		domain.FrequencyQuarterly, domain.FrequencyAnnual:
		return true
	default:
		return false
	}
}

func validKind(k domain.ObligationKind) bool {
	return k == domain.ObligationKindBill || k == domain.ObligationKindSubscription
}
