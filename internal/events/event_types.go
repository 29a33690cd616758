package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEntityCreated       EventType = "entity_created"
	EventEntityUpdated       EventType = "entity_updated"
	EventEntityDeleted       EventType = "entity_deleted"
	EventWriteFailed         EventType = "write_failed"
	EventCollectionRefreshed EventType = "collection_refreshed"
	EventReconcileFailed     EventType = "reconcile_failed"
	EventLoadAllFailed       EventType = "load_all_failed"
)

// Event represents a change observed by the entity repository.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Collection string      `json:"collection"`
	EntityID   string      `json:"entity_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, collection, entityID string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Collection: collection,
		EntityID:   entityID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// EntityPayload names the entity an event is about.
type EntityPayload struct {
	Label string `json:"label"`
}

// FailurePayload carries the error text of a failed store call.
type FailurePayload struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// RefreshPayload describes a completed collection refetch.
type RefreshPayload struct {
	Count  int    `json:"count"`
	Reason string `json:"reason"`
}
