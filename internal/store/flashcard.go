package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tenxcards/cards-api/internal/domain"
)

// Sort identifies a listing sort order. The negative prefix means
// descending, mirroring the query parameter format of the listing endpoint.
type Sort string

// Supported sort orders for flashcard listing.
const (
	SortCreatedAtAsc  Sort = "created_at"
	SortCreatedAtDesc Sort = "-created_at"
	SortUpdatedAtAsc  Sort = "updated_at"
	SortUpdatedAtDesc Sort = "-updated_at"
)

// IsValid reports whether s is a supported sort order.
func (s Sort) IsValid() bool {
	switch s {
	case SortCreatedAtAsc, SortCreatedAtDesc, SortUpdatedAtAsc, SortUpdatedAtDesc:
		return true
	default:
		return false
	}
}

// ListFilter carries pagination and ordering for owner-scoped listing.
// Normalization (page-size clamping, default sort) happens in the service
// layer; stores receive already-valid values.
type ListFilter struct {
	Sort   Sort
	Limit  int
	Offset int
}

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create saves a single flashcard.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Flashcard) error

	// CreateMultiple saves multiple flashcards. Callers that need atomicity
	// (the generation service persisting a batch of candidates) must run it
	// through WithTx inside store.RunInTransaction.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetCandidate retrieves a flashcard that is still pending review and
	// belongs to both the given session and user. A wrong session, wrong
	// owner, already resolved card, or missing row all return
	// ErrFlashcardNotFound.
	GetCandidate(ctx context.Context, id, sessionID, userID uuid.UUID) (*domain.Flashcard, error)

	// ListForUser retrieves the user's accepted flashcards (manual cards and
	// candidates that survived review). Pending and rejected candidates are
	// never returned.
	ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*domain.Flashcard, error)

	// CountForUser returns the total number of flashcards ListForUser would
	// page through for the user.
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// ResolvePending persists a review decision with a conditional update
	// guarded on review_state = 'pending'. If the row has already been
	// resolved by a concurrent request (or does not match id/session/owner),
	// no row is updated and ErrFlashcardNotFound is returned. This is the
	// atomic check-and-set the review state machine relies on.
	ResolvePending(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard owned by the given user.
	// Returns ErrFlashcardNotFound if no such row exists for that owner.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a FlashcardStore bound to the given transaction so
	// multiple operations can commit or roll back together.
	WithTx(tx *sql.Tx) FlashcardStore
}
