package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/websocket"
)

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces  map[string]*domain.Workspace
	NextID      int32
	GetErr      error
	CreateErr   error
	ListErr     error
	CreateCalls int
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[string]*domain.Workspace),
		NextID:     1,
	}
}

// GetByAuth0ID retrieves the workspace owned by an Auth0 subject
func (m *MockWorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if ws, ok := m.Workspaces[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Create stores a new workspace
func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if existing, ok := m.Workspaces[workspace.Auth0ID]; ok {
		return existing, nil
	}
	workspace.ID = m.NextID
	m.NextID++
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	m.Workspaces[workspace.Auth0ID] = workspace
	return workspace, nil
}

// ListAll returns every workspace ordered by ID
func (m *MockWorkspaceRepository) ListAll() ([]*domain.Workspace, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]*domain.Workspace, 0, len(m.Workspaces))
	for _, ws := range m.Workspaces {
		result = append(result, ws)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// AddWorkspace adds a workspace directly for test setup
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace) {
	m.Workspaces[workspace.Auth0ID] = workspace
	if workspace.ID >= m.NextID {
		m.NextID = workspace.ID + 1
	}
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments  map[int32]*domain.Payment
	NextID    int32
	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[int32]*domain.Payment),
		NextID:   1,
	}
}

// Create stores a new payment
func (m *MockPaymentRepository) Create(p *domain.Payment) (*domain.Payment, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	p.ID = m.NextID
	m.NextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.Payments[p.ID] = p
	return p, nil
}

// GetByID retrieves a non-deleted payment within a workspace
func (m *MockPaymentRepository) GetByID(workspaceID int32, id int32) (*domain.Payment, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.Payments[id]
	if !ok || p.WorkspaceID != workspaceID || p.DeletedAt != nil {
		return nil, domain.ErrPaymentNotFound
	}
	return p, nil
}

// ListByWorkspace lists non-deleted payments ordered by ID, optionally filtered by active state
func (m *MockPaymentRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.Payment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]*domain.Payment, 0)
	for id := int32(1); id < m.NextID; id++ {
		p, ok := m.Payments[id]
		if !ok || p.WorkspaceID != workspaceID || p.DeletedAt != nil {
			continue
		}
		if activeOnly != nil && p.IsActive != *activeOnly {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Update replaces a stored payment
func (m *MockPaymentRepository) Update(p *domain.Payment) (*domain.Payment, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	existing, ok := m.Payments[p.ID]
	if !ok || existing.WorkspaceID != p.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrPaymentNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	m.Payments[p.ID] = p
	return p, nil
}

// Delete soft deletes a payment
func (m *MockPaymentRepository) Delete(workspaceID int32, id int32) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	p, ok := m.Payments[id]
	if !ok || p.WorkspaceID != workspaceID || p.DeletedAt != nil {
		return domain.ErrPaymentNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

// AddPayment adds a payment directly for test setup
func (m *MockPaymentRepository) AddPayment(p *domain.Payment) {
	m.Payments[p.ID] = p
	if p.ID >= m.NextID {
		m.NextID = p.ID + 1
	}
}

// PublishedEvent is one call recorded by MockEventPublisher
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish implements websocket.EventPublisher
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]PublishedEvent, len(m.events))
	copy(events, m.events)
	return events
}

// EventTypes returns the type of each recorded event in order
func (m *MockEventPublisher) EventTypes() []string {
	events := m.Events()
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Event.Type)
	}
	return types
}
