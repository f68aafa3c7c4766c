package service

import (
	"errors"
	"testing"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateUser_ProvisionsWorkspace(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(workspaceRepo)

	result, err := svc.AuthenticateUser("auth0|new")
	require.NoError(t, err)

	assert.True(t, result.IsNewWorkspace)
	assert.Equal(t, DefaultWorkspaceName, result.Workspace.Name)
	assert.Equal(t, "auth0|new", result.Workspace.Auth0ID)
	assert.NotZero(t, result.Workspace.ID)
}

func TestAuthenticateUser_ExistingWorkspace(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 7, Auth0ID: "auth0|existing", Name: "Household"})
	svc := NewAuthService(workspaceRepo)

	result, err := svc.AuthenticateUser("auth0|existing")
	require.NoError(t, err)

	assert.False(t, result.IsNewWorkspace)
	assert.Equal(t, int32(7), result.Workspace.ID)
	assert.Equal(t, 0, workspaceRepo.CreateCalls)
}

func TestAuthenticateUser_SecondLoginReusesWorkspace(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(workspaceRepo)

	first, err := svc.AuthenticateUser("auth0|repeat")
	require.NoError(t, err)
	second, err := svc.AuthenticateUser("auth0|repeat")
	require.NoError(t, err)

	assert.Equal(t, first.Workspace.ID, second.Workspace.ID)
	assert.False(t, second.IsNewWorkspace)
	assert.Equal(t, 1, workspaceRepo.CreateCalls)
}

func TestAuthenticateUser_EmptySubject(t *testing.T) {
	svc := NewAuthService(testutil.NewMockWorkspaceRepository())

	_, err := svc.AuthenticateUser("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticateUser_LookupFailure(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.GetErr = errors.New("connection refused")
	svc := NewAuthService(workspaceRepo)

	_, err := svc.AuthenticateUser("auth0|any")
	require.Error(t, err)
	assert.Equal(t, 0, workspaceRepo.CreateCalls)
}

func TestAuthenticateUser_CreateFailure(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.CreateErr = errors.New("insert failed")
	svc := NewAuthService(workspaceRepo)

	_, err := svc.AuthenticateUser("auth0|any")
	assert.EqualError(t, err, "insert failed")
}

func TestGetWorkspaceByAuth0ID_NotFound(t *testing.T) {
	svc := NewAuthService(testutil.NewMockWorkspaceRepository())

	_, err := svc.GetWorkspaceByAuth0ID("auth0|missing")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}
