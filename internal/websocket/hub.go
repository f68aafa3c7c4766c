package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub tracks connected clients per workspace. It is safe for concurrent use.
type Hub struct {
	workspaces map[int32]map[string]ClientInterface
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		workspaces: make(map[int32]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its workspace
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.workspaces[client.WorkspaceID()]
	if !ok {
		clients = make(map[string]ClientInterface)
		h.workspaces[client.WorkspaceID()] = clients
	}
	clients[client.ID()] = client

	log.Debug().
		Int32("workspace_id", client.WorkspaceID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.workspaces[client.WorkspaceID()]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.workspaces, client.WorkspaceID())
	}

	log.Debug().
		Int32("workspace_id", client.WorkspaceID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to all clients of a workspace. Clients whose send
// buffer is full or closed are dropped from the hub.
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	recipients := make([]ClientInterface, 0, len(h.workspaces[workspaceID]))
	for _, client := range h.workspaces[workspaceID] {
		recipients = append(recipients, client)
	}
	h.mu.RUnlock()

	if len(recipients) == 0 {
		return
	}

	for _, client := range recipients {
		if err := client.Send(data); err != nil {
			log.Warn().
				Err(err).
				Int32("workspace_id", workspaceID).
				Str("client_id", client.ID()).
				Msg("Dropping unresponsive WebSocket client")
			h.Unregister(client)
		}
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients connected to a workspace
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.workspaces[workspaceID])
}

// TotalClientCount returns the number of connected clients across all workspaces
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.workspaces {
		total += len(clients)
	}
	return total
}
