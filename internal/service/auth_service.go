package service

import (
	"errors"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultWorkspaceName is the name given to a workspace provisioned on first login
const DefaultWorkspaceName = "Personal"

// AuthService handles authentication-related business logic
type AuthService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{
		workspaceRepo: workspaceRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	Workspace      *domain.Workspace
	IsNewWorkspace bool
}

// AuthenticateUser resolves the workspace of an Auth0 subject, creating the
// default workspace on first login
func (s *AuthService) AuthenticateUser(auth0ID string) (*AuthResult, error) {
	if auth0ID == "" {
		return nil, domain.ErrUnauthorized
	}

	workspace, err := s.workspaceRepo.GetByAuth0ID(auth0ID)
	if err == nil {
		return &AuthResult{Workspace: workspace}, nil
	}
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get workspace")
		return nil, err
	}

	workspace, err = s.workspaceRepo.Create(&domain.Workspace{
		Auth0ID: auth0ID,
		Name:    DefaultWorkspaceName,
	})
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create default workspace")
		return nil, err
	}

	log.Info().Str("auth0_id", auth0ID).Int32("workspace_id", workspace.ID).Msg("Created default workspace")
	return &AuthResult{Workspace: workspace, IsNewWorkspace: true}, nil
}

// GetWorkspaceByAuth0ID retrieves a user's workspace by their Auth0 ID
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByAuth0ID(auth0ID)
}
