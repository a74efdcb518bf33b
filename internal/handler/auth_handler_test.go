package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
)

// Helper to set up auth context (simulating what auth middleware does)
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	setupAuthContextWithHousehold(c, auth0ID, email, name, picture, 0)
}

// Helper to set up auth context with household ID
func setupAuthContextWithHousehold(c echo.Context, auth0ID string, email, name, picture string, householdID int32) {
	customClaims := &middleware.CustomClaims{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if householdID > 0 {
		ctx = context.WithValue(ctx, middleware.HouseholdIDKey, householdID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthFixture() (*AuthHandler, *testutil.MockUserRepository, *testutil.MockHouseholdRepository) {
	userRepo := testutil.NewMockUserRepository()
	householdRepo := testutil.NewMockHouseholdRepository()
	authService := service.NewAuthService(userRepo, householdRepo)
	return NewAuthHandler(authService), userRepo, householdRepo
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|newuser123", "new@example.com", "New User", "https://example.com/pic.jpg")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.IsNewUser {
		t.Error("Expected IsNewUser to be true")
	}
	if response.User.Email != "new@example.com" {
		t.Errorf("Expected email 'new@example.com', got %s", response.User.Email)
	}
	if response.Household.ID == 0 {
		t.Error("Expected a default household to be created")
	}
}

func TestCallback_MissingEmail(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|noemail", "", "", "")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCallback_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
