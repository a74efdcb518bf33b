package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newSnapshotHandlerFixture() (*SnapshotHandler, *testutil.MockTransactionRepository, *testutil.MockBudgetRepository) {
	txRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	goalRepo := testutil.NewMockGoalRepository()
	investmentRepo := testutil.NewMockInvestmentRepository()
	recurringRepo := testutil.NewMockRecurringRepository()

	snapshotService := service.NewSnapshotService(
		txRepo,
		budgetRepo,
		goalRepo,
		investmentRepo,
		recurringRepo,
		service.NewAggregationService(),
		service.NewBudgetService(budgetRepo, nil),
		service.NewGoalService(goalRepo, nil),
	)
	return NewSnapshotHandler(snapshotService), txRepo, budgetRepo
}

func TestGetSnapshotByYearMonth(t *testing.T) {
	e := echo.New()
	handler, txRepo, budgetRepo := newSnapshotHandlerFixture()

	txRepo.AddTransaction(&domain.Transaction{
		ID: 1, HouseholdID: 7,
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString("4000"),
		Category: "salary",
	})
	txRepo.AddTransaction(&domain.Transaction{
		ID: 2, HouseholdID: 7,
		Date:     time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString("-1000"),
		Category: "rent",
	})
	budgetRepo.AddBudget(&domain.Budget{
		ID: 1, HouseholdID: 7,
		Category: "rent",
		Amount:   decimal.RequireFromString("1200"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2025/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2025", "3")

	setupAuthContextWithHousehold(c, "auth0|snap", "snap@example.com", "", "", 7)

	if err := handler.GetByYearMonth(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snapshot domain.FinancialSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !snapshot.MonthlyIncome.Equal(decimal.RequireFromString("4000")) {
		t.Errorf("Expected income 4000, got %s", snapshot.MonthlyIncome)
	}
	if !snapshot.MonthlyExpenses.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected expenses 1000, got %s", snapshot.MonthlyExpenses)
	}
	if len(snapshot.BudgetStatus) != 1 {
		t.Fatalf("Expected 1 budget status, got %d", len(snapshot.BudgetStatus))
	}
	if !snapshot.PeriodStart.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period start 2025-03-01, got %s", snapshot.PeriodStart)
	}
}

func TestGetSnapshotByYearMonth_InvalidMonth(t *testing.T) {
	e := echo.New()
	handler, _, _ := newSnapshotHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2025/13", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2025", "13")

	setupAuthContextWithHousehold(c, "auth0|snap", "snap@example.com", "", "", 7)

	if err := handler.GetByYearMonth(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSnapshot_Unauthorized(t *testing.T) {
	e := echo.New()
	handler, _, _ := newSnapshotHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/current", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetCurrent(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
