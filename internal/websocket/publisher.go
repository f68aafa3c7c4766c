package websocket

import "github.com/rs/zerolog"

// EventPublisher publishes events to the clients of a workspace
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
}

// LoggingPublisher logs every event at debug level before passing it on
type LoggingPublisher struct {
	next   EventPublisher
	logger zerolog.Logger
}

// NewLoggingPublisher wraps next
func NewLoggingPublisher(next EventPublisher, logger zerolog.Logger) *LoggingPublisher {
	return &LoggingPublisher{
		next:   next,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Publish implements EventPublisher
func (p *LoggingPublisher) Publish(workspaceID int32, event Event) {
	p.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("event", event.Type).
		Msg("Publishing event")
	p.next.Publish(workspaceID, event)
}
