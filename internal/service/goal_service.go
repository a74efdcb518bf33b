package service

import (
	"math"
	"strings"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

const (
	// daysPerMonth is the approximation used for months-remaining math.
	// Category aggregation uses true calendar months; goal trajectories
	// intentionally keep this simpler convention.
	daysPerMonth = 30.0
	// hoursPerDay converts a time.Duration span to calendar days.
	hoursPerDay = 24.0
)

// onTrackTolerance: contributing at least 90% of the required rate still
// counts as on track.
var onTrackTolerance = decimal.RequireFromString("0.9")

// GoalService manages savings goals and evaluates their trajectories.
type GoalService struct {
	goalRepo  domain.GoalRepository
	publisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, publisher websocket.EventPublisher) *GoalService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &GoalService{
		goalRepo:  goalRepo,
		publisher: publisher,
	}
}

// EvaluateGoal computes the trajectory of a goal as of a reference date.
// Degenerate goals (target <= 0) produce a zeroed, on-track result; this
// feeds user-facing displays where a hard failure is unacceptable.
func (s *GoalService) EvaluateGoal(goal *domain.FinancialGoal, asOf time.Time) domain.GoalAnalysis {
	analysis := domain.GoalAnalysis{
		GoalID:              goal.ID,
		Title:               goal.Title,
		ProgressPct:         decimal.Zero,
		RequiredMonthly:     decimal.Zero,
		MonthlyContribution: goal.MonthlyContribution,
	}

	if !goal.TargetAmount.IsPositive() {
		analysis.OnTrack = true
		return analysis
	}

	analysis.ProgressPct = goal.CurrentAmount.Div(goal.TargetAmount).Mul(oneHundred)
	analysis.MonthsRemaining = monthsBetween(asOf, goal.TargetDate)

	funded := goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)

	if !funded && analysis.MonthsRemaining > 0 {
		months := decimal.NewFromFloat(analysis.MonthsRemaining)
		analysis.RequiredMonthly = remaining.Div(months)
	}

	if funded {
		analysis.OnTrack = true
		completion := asOf
		analysis.ProjectedCompletion = &completion
		return analysis
	}

	analysis.OnTrack = goal.MonthlyContribution.GreaterThanOrEqual(analysis.RequiredMonthly.Mul(onTrackTolerance))

	if !goal.MonthlyContribution.IsPositive() {
		// No contributions and not funded: completion never happens.
		// Signaled distinctly instead of approximating "now".
		analysis.Unreachable = true
		return analysis
	}

	monthsToComplete := int(remaining.Div(goal.MonthlyContribution).Ceil().IntPart())
	completion := asOf.AddDate(0, monthsToComplete, 0)
	analysis.ProjectedCompletion = &completion

	return analysis
}

// monthsBetween returns the 30-day-month approximation of the span from
// asOf to target, floored at zero for past-due targets.
func monthsBetween(asOf, target time.Time) float64 {
	days := target.Sub(asOf).Hours() / hoursPerDay
	return math.Max(0, days/daysPerMonth)
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Title               string
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	TargetDate          time.Time
	MonthlyContribution decimal.Decimal
	GoalType            *string
}

// CreateGoal creates a new savings goal with validation
func (s *GoalService) CreateGoal(householdID int32, input CreateGoalInput) (*domain.FinancialGoal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}
	if input.TargetAmount.IsNegative() || input.CurrentAmount.IsNegative() || input.MonthlyContribution.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.TargetDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	created, err := s.goalRepo.Create(&domain.FinancialGoal{
		HouseholdID:         householdID,
		Title:               title,
		TargetAmount:        input.TargetAmount,
		CurrentAmount:       input.CurrentAmount,
		TargetDate:          input.TargetDate,
		MonthlyContribution: input.MonthlyContribution,
		Status:              domain.GoalStatusActive,
		GoalType:            input.GoalType,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.GoalCreated(created))
	return created, nil
}

// ListGoals retrieves goals for a household, optionally filtered by status
func (s *GoalService) ListGoals(householdID int32, status *domain.GoalStatus) ([]*domain.FinancialGoal, error) {
	if status != nil && !validGoalStatus(*status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.goalRepo.ListByHousehold(householdID, status)
}

// GetGoalByID retrieves a goal by ID within a household
func (s *GoalService) GetGoalByID(householdID int32, id int32) (*domain.FinancialGoal, error) {
	return s.goalRepo.GetByID(householdID, id)
}

// UpdateGoalInput holds the input for updating a goal
type UpdateGoalInput struct {
	Title               string
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	TargetDate          time.Time
	MonthlyContribution decimal.Decimal
	Status              domain.GoalStatus
	GoalType            *string
}

// UpdateGoal updates a goal with validation
func (s *GoalService) UpdateGoal(householdID int32, id int32, input UpdateGoalInput) (*domain.FinancialGoal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}
	if input.TargetAmount.IsNegative() || input.CurrentAmount.IsNegative() || input.MonthlyContribution.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !validGoalStatus(input.Status) {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.goalRepo.Update(&domain.FinancialGoal{
		ID:                  id,
		HouseholdID:         householdID,
		Title:               title,
		TargetAmount:        input.TargetAmount,
		CurrentAmount:       input.CurrentAmount,
		TargetDate:          input.TargetDate,
		MonthlyContribution: input.MonthlyContribution,
		Status:              input.Status,
		GoalType:            input.GoalType,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.GoalUpdated(updated))
	return updated, nil
}

// DeleteGoal soft deletes a goal
func (s *GoalService) DeleteGoal(householdID int32, id int32) error {
	if err := s.goalRepo.SoftDelete(householdID, id); err != nil {
		return err
	}
	s.publisher.Publish(householdID, websocket.GoalUpdated(map[string]int32{"id": id}))
	return nil
}

func validGoalStatus(status domain.GoalStatus) bool {
	switch status {
	case domain.GoalStatusActive, domain.GoalStatusCompleted, domain.GoalStatusAbandoned:
		return true
	default:
		return false
	}
}
