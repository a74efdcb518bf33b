package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTransactionFixture() (*TransactionHandler, *testutil.MockTransactionRepository) {
	txRepo := testutil.NewMockTransactionRepository()
	return NewTransactionHandler(service.NewTransactionService(txRepo, nil)), txRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionFixture()

	body := `{"date":"2025-03-05","amount":"-42.50","category":"groceries","merchant":"Corner Market"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithHousehold(c, "auth0|tx", "tx@example.com", "", "", 7)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Amount != "-42.5" {
		t.Errorf("Expected amount '-42.5', got %s", response.Amount)
	}
	if response.Category != "groceries" {
		t.Errorf("Expected category 'groceries', got %s", response.Category)
	}
	if response.Date != "2025-03-05" {
		t.Errorf("Expected date '2025-03-05', got %s", response.Date)
	}
}

func TestCreateTransaction_InvalidAmount(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionFixture()

	cases := []struct {
		name string
		body string
	}{
		{"not a number", `{"amount":"abc","category":"misc"}`},
		{"zero amount", `{"amount":"0","category":"misc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			setupAuthContextWithHousehold(c, "auth0|tx", "tx@example.com", "", "", 7)

			if err := handler.CreateTransaction(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"amount":"10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetTransactions_FiltersAndPagination(t *testing.T) {
	e := echo.New()
	handler, txRepo := newTransactionFixture()

	for i, amount := range []string{"-10", "-20", "3000"} {
		txRepo.AddTransaction(&domain.Transaction{
			ID:          int32(i + 1),
			HouseholdID: 7,
			Date:        time.Date(2025, 3, i+1, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString(amount),
			Category:    "misc",
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?page=1&pageSize=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithHousehold(c, "auth0|tx", "tx@example.com", "", "", 7)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.PageSize != 2 {
		t.Errorf("Expected pageSize 2, got %d", response.PageSize)
	}
}

func TestGetTransactions_InvalidDate(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?startDate=March", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithHousehold(c, "auth0|tx", "tx@example.com", "", "", 7)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	setupAuthContextWithHousehold(c, "auth0|tx", "tx@example.com", "", "", 7)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
