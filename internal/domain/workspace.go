package domain

import "time"

// Workspace groups the payments of one authenticated user
type Workspace struct {
	ID        int32     `json:"id"`
	Auth0ID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByAuth0ID(auth0ID string) (*Workspace, error)
	Create(workspace *Workspace) (*Workspace, error)
	ListAll() ([]*Workspace, error)
}
