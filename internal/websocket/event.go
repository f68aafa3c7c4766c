package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeChanged EventType = "changed"
	EventTypeDue     EventType = "due"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypePayment  EntityType = "payment"
	EntityTypeSchedule EntityType = "schedule"
)

// Event is the message pushed to clients.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // e.g. "payment.created"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PaymentCreated creates a payment.created event
func PaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayment, payload)
}

// PaymentUpdated creates a payment.updated event
func PaymentUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypePayment, payload)
}

// PaymentDeleted creates a payment.deleted event
func PaymentDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypePayment, payload)
}

// ScheduleChanged tells clients that upcoming dates and projections for the
// workspace must be refetched
func ScheduleChanged(payload interface{}) Event {
	return NewEvent(EventTypeChanged, EntityTypeSchedule, payload)
}

// PaymentDue creates a payment.due reminder event
func PaymentDue(payload interface{}) Event {
	return NewEvent(EventTypeDue, EntityTypePayment, payload)
}
