package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
)

func newBudgetFixture() *BudgetHandler {
	budgetRepo := testutil.NewMockBudgetRepository()
	return NewBudgetHandler(service.NewBudgetService(budgetRepo, nil))
}

func TestCreateBudget_Success(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	body := `{"category":"groceries","amount":"600"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithHousehold(c, "auth0|budget", "budget@example.com", "", "", 7)

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "groceries" {
		t.Errorf("Expected category 'groceries', got %s", response.Category)
	}
	if response.Amount != "600" {
		t.Errorf("Expected amount '600', got %s", response.Amount)
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	cases := []struct {
		name string
		body string
	}{
		{"missing category", `{"category":"","amount":"100"}`},
		{"negative amount", `{"category":"misc","amount":"-5"}`},
		{"bad amount", `{"category":"misc","amount":"lots"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			setupAuthContextWithHousehold(c, "auth0|budget", "budget@example.com", "", "", 7)

			if err := handler.CreateBudget(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestUpdateBudget_NotFound(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/42", strings.NewReader(`{"category":"misc","amount":"100"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	setupAuthContextWithHousehold(c, "auth0|budget", "budget@example.com", "", "", 7)

	if err := handler.UpdateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
