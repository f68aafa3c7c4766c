package handler

import (
	"net/http"

	"github.com/budgetwise/budgetwise-backend/internal/middleware"
	"github.com/budgetwise/budgetwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// AuthResponse represents the authenticated session in API responses
type AuthResponse struct {
	Email          string            `json:"email,omitempty"`
	Name           string            `json:"name,omitempty"`
	Workspace      WorkspaceResponse `json:"workspace"`
	IsNewWorkspace bool              `json:"isNewWorkspace"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Callback provisions the caller's workspace after Auth0 login. The frontend
// calls it once it holds a token; repeated calls are harmless.
// POST /api/v1/auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	result, err := h.authService.AuthenticateUser(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	response := AuthResponse{
		Workspace: WorkspaceResponse{
			ID:   result.Workspace.ID,
			Name: result.Workspace.Name,
		},
		IsNewWorkspace: result.IsNewWorkspace,
	}
	if claims := middleware.GetCustomClaims(c); claims != nil {
		response.Email = claims.Email
		response.Name = claims.Name
	}

	return c.JSON(http.StatusOK, response)
}

// Me returns the current session
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspace, err := h.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get workspace")
		return NewNotFoundError(c, "Workspace not found")
	}

	response := AuthResponse{
		Workspace: WorkspaceResponse{
			ID:   workspace.ID,
			Name: workspace.Name,
		},
	}
	if claims := middleware.GetCustomClaims(c); claims != nil {
		response.Email = claims.Email
		response.Name = claims.Name
	}

	return c.JSON(http.StatusOK, response)
}
