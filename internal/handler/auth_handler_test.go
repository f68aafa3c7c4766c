package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/middleware"
	"github.com/budgetwise/budgetwise-backend/internal/service"
	"github.com/budgetwise/budgetwise-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

// Helper to set up auth context
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	setupAuthContextWithWorkspace(c, auth0ID, email, name, picture, 0)
}

// Helper to set up auth context with workspace ID
func setupAuthContextWithWorkspace(c echo.Context, auth0ID string, email, name, picture string, workspaceID int32) {
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
	if workspaceID > 0 {
		ctx = context.WithValue(ctx, middleware.WorkspaceIDKey, workspaceID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func setupAuthHandler() (*AuthHandler, *testutil.MockWorkspaceRepository) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	return NewAuthHandler(service.NewAuthService(workspaceRepo)), workspaceRepo
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|new", "new@example.com", "New User", "")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.IsNewWorkspace {
		t.Error("Expected isNewWorkspace to be true")
	}
	if response.Workspace.Name != "Personal" {
		t.Errorf("Expected workspace 'Personal', got %q", response.Workspace.Name)
	}
	if response.Email != "new@example.com" {
		t.Errorf("Expected email from claims, got %q", response.Email)
	}
}

func TestCallback_ExistingUser(t *testing.T) {
	e := echo.New()
	handler, workspaceRepo := setupAuthHandler()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 4, Auth0ID: "auth0|existing", Name: "Household"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|existing", "old@example.com", "", "")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.IsNewWorkspace {
		t.Error("Expected isNewWorkspace to be false")
	}
	if response.Workspace.ID != 4 {
		t.Errorf("Expected workspace 4, got %d", response.Workspace.ID)
	}
}

func TestCallback_MissingAuth0ID(t *testing.T) {
	e := echo.New()
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Callback(c)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCallback_RepositoryError(t *testing.T) {
	e := echo.New()
	handler, workspaceRepo := setupAuthHandler()
	workspaceRepo.GetErr = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|any", "", "", "")

	_ = handler.Callback(c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	handler, workspaceRepo := setupAuthHandler()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 2, Auth0ID: "auth0|me", Name: "Personal"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|me", "me@example.com", "Me", "", 2)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Workspace.ID != 2 || response.Name != "Me" {
		t.Errorf("Unexpected response %+v", response)
	}
}

func TestMe_WorkspaceNotFound(t *testing.T) {
	e := echo.New()
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|ghost", "", "", "")

	_ = handler.Me(c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestMe_MissingAuth0ID(t *testing.T) {
	e := echo.New()
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Me(c)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
