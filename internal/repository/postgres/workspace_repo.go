package postgres

import (
	"context"
	"errors"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByAuth0ID retrieves the workspace owned by an Auth0 subject
func (r *WorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.pool.QueryRow(context.Background(), `
		SELECT id, auth0_id, name, created_at, updated_at
		FROM workspaces
		WHERE auth0_id = $1`,
		auth0ID,
	).Scan(&w.ID, &w.Auth0ID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListAll returns every workspace ordered by ID
func (r *WorkspaceRepository) ListAll() ([]*domain.Workspace, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, auth0_id, name, created_at, updated_at
		FROM workspaces
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.Auth0ID, &w.Name, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, &w)
	}
	return workspaces, rows.Err()
}

// Create creates a workspace, returning the existing one if the subject already has one
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.pool.QueryRow(context.Background(), `
		INSERT INTO workspaces (auth0_id, name)
		VALUES ($1, $2)
		ON CONFLICT (auth0_id) DO UPDATE SET updated_at = workspaces.updated_at
		RETURNING id, auth0_id, name, created_at, updated_at`,
		workspace.Auth0ID, workspace.Name,
	).Scan(&w.ID, &w.Auth0ID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
