package service

import (
	"testing"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func goal(target, current, contribution string, targetDate time.Time) *domain.FinancialGoal {
	return &domain.FinancialGoal{
		ID:                  1,
		Title:               "Emergency fund",
		TargetAmount:        decimal.RequireFromString(target),
		CurrentAmount:       decimal.RequireFromString(current),
		MonthlyContribution: decimal.RequireFromString(contribution),
		TargetDate:          targetDate,
		Status:              domain.GoalStatusActive,
	}
}

func TestEvaluateGoal(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository(), nil)
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sixMonthsOut := asOf.AddDate(0, 0, 180)

	t.Run("on track goal", func(t *testing.T) {
		g := goal("12000", "6000", "1000", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.ProgressPct.Equal(decimal.RequireFromString("50")) {
			t.Errorf("ProgressPct = %s, want 50", analysis.ProgressPct)
		}
		if analysis.MonthsRemaining != 6 {
			t.Errorf("MonthsRemaining = %v, want 6", analysis.MonthsRemaining)
		}
		if !analysis.RequiredMonthly.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("RequiredMonthly = %s, want 1000", analysis.RequiredMonthly)
		}
		if !analysis.OnTrack {
			t.Error("expected goal to be on track")
		}
		wantCompletion := asOf.AddDate(0, 6, 0)
		if analysis.ProjectedCompletion == nil || !analysis.ProjectedCompletion.Equal(wantCompletion) {
			t.Errorf("ProjectedCompletion = %v, want %v", analysis.ProjectedCompletion, wantCompletion)
		}
		if analysis.Unreachable {
			t.Error("goal should not be unreachable")
		}
	})

	t.Run("within ninety percent tolerance still on track", func(t *testing.T) {
		g := goal("12000", "6000", "910", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.OnTrack {
			t.Errorf("contribution 910 against required %s should be on track", analysis.RequiredMonthly)
		}
	})

	t.Run("below tolerance is off track", func(t *testing.T) {
		g := goal("12000", "6000", "800", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if analysis.OnTrack {
			t.Error("contribution 800 against required 1000 should be off track")
		}
		wantCompletion := asOf.AddDate(0, 8, 0)
		if analysis.ProjectedCompletion == nil || !analysis.ProjectedCompletion.Equal(wantCompletion) {
			t.Errorf("ProjectedCompletion = %v, want %v", analysis.ProjectedCompletion, wantCompletion)
		}
	})

	t.Run("fully funded completes at reference date", func(t *testing.T) {
		g := goal("10000", "10000", "0", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.ProgressPct.Equal(decimal.RequireFromString("100")) {
			t.Errorf("ProgressPct = %s, want 100", analysis.ProgressPct)
		}
		if !analysis.RequiredMonthly.IsZero() {
			t.Errorf("RequiredMonthly = %s, want 0", analysis.RequiredMonthly)
		}
		if !analysis.OnTrack {
			t.Error("funded goal must be on track")
		}
		if analysis.ProjectedCompletion == nil || !analysis.ProjectedCompletion.Equal(asOf) {
			t.Errorf("ProjectedCompletion = %v, want %v", analysis.ProjectedCompletion, asOf)
		}
	})

	t.Run("overfunded goal progress exceeds one hundred", func(t *testing.T) {
		g := goal("1000", "1500", "0", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.ProgressPct.Equal(decimal.RequireFromString("150")) {
			t.Errorf("ProgressPct = %s, want 150", analysis.ProgressPct)
		}
		if !analysis.OnTrack {
			t.Error("overfunded goal must be on track")
		}
	})

	t.Run("no contribution is unreachable", func(t *testing.T) {
		g := goal("12000", "6000", "0", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.Unreachable {
			t.Error("zero contribution on an unfunded goal must be unreachable")
		}
		if analysis.ProjectedCompletion != nil {
			t.Errorf("ProjectedCompletion = %v, want nil", analysis.ProjectedCompletion)
		}
		if analysis.OnTrack {
			t.Error("unreachable goal should not be on track")
		}
	})

	t.Run("past due target floors months at zero", func(t *testing.T) {
		g := goal("12000", "6000", "500", asOf.AddDate(0, 0, -30))
		analysis := svc.EvaluateGoal(g, asOf)

		if analysis.MonthsRemaining != 0 {
			t.Errorf("MonthsRemaining = %v, want 0", analysis.MonthsRemaining)
		}
		if !analysis.RequiredMonthly.IsZero() {
			t.Errorf("RequiredMonthly = %s, want 0 when no time remains", analysis.RequiredMonthly)
		}
		wantCompletion := asOf.AddDate(0, 12, 0)
		if analysis.ProjectedCompletion == nil || !analysis.ProjectedCompletion.Equal(wantCompletion) {
			t.Errorf("ProjectedCompletion = %v, want %v", analysis.ProjectedCompletion, wantCompletion)
		}
	})

	t.Run("zero target is degenerate and on track", func(t *testing.T) {
		g := goal("0", "0", "0", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		if !analysis.ProgressPct.IsZero() {
			t.Errorf("ProgressPct = %s, want 0", analysis.ProgressPct)
		}
		if !analysis.OnTrack {
			t.Error("degenerate goal must report on track")
		}
		if analysis.Unreachable {
			t.Error("degenerate goal must not be unreachable")
		}
	})

	t.Run("partial month remainder rounds completion up", func(t *testing.T) {
		g := goal("1000", "0", "300", sixMonthsOut)
		analysis := svc.EvaluateGoal(g, asOf)

		// 1000 / 300 = 3.33 months, so completion lands 4 months out.
		wantCompletion := asOf.AddDate(0, 4, 0)
		if analysis.ProjectedCompletion == nil || !analysis.ProjectedCompletion.Equal(wantCompletion) {
			t.Errorf("ProjectedCompletion = %v, want %v", analysis.ProjectedCompletion, wantCompletion)
		}
	})
}
