package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the application core.
const (
	TypeGenerationStarted   = "generation.started"
	TypeGenerationCompleted = "generation.completed"
	TypeGenerationFailed    = "generation.failed"
	TypeCardAccepted        = "card.accepted"
	TypeCardRejected        = "card.rejected"
	TypeCardDeleted         = "card.deleted"
)

// Event is one structured audit record. Fields carries event-specific
// attributes (counts, latencies, error codes); it never contains raw user
// content or raw provider errors.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	UserID    uuid.UUID      `json:"user_id"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// New creates an Event of the given type for the given user.
func New(eventType string, userID uuid.UUID, fields map[string]any) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
}

// Handler processes emitted events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter publishes events to registered handlers. Services depend on this
// interface, not on a concrete emitter, so tests can substitute a recorder.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *Event)
}
