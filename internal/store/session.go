package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tenxcards/cards-api/internal/domain"
)

// SessionStore defines the interface for generation session persistence.
// Sessions are append-mostly audit records: created before the LLM call,
// updated once with the outcome, and never deleted by application flow.
type SessionStore interface {
	// Create saves a new generation session.
	// Returns validation errors if the session data is invalid.
	Create(ctx context.Context, session *domain.GenerationSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error)

	// UpdateResult persists the outcome fields of a resolved attempt:
	// generated_count, api_response_time_ms, error_code and error_message.
	// Returns ErrSessionNotFound if the session does not exist.
	UpdateResult(ctx context.Context, session *domain.GenerationSession) error

	// IncrementDecision bumps the session's point-in-time accepted or
	// rejected counter. Only ReviewStateAccepted and ReviewStateRejected are
	// meaningful states here.
	// Returns ErrSessionNotFound if the session does not exist.
	IncrementDecision(ctx context.Context, id uuid.UUID, state domain.ReviewState) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
