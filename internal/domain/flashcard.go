package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreationMethod records how a flashcard came into existence.
type CreationMethod string

// Possible creation method values
const (
	// CreationMethodManual marks a card the user typed in themselves.
	CreationMethodManual CreationMethod = "manual"

	// CreationMethodAIFull marks an AI-generated card accepted without edits.
	CreationMethodAIFull CreationMethod = "ai_full"

	// CreationMethodAIEdited marks an AI-generated card edited before accepting.
	CreationMethodAIEdited CreationMethod = "ai_edited"
)

// ReviewState is the lifecycle state of a flashcard with respect to the
// accept/reject review flow. Manually created cards are accepted at birth
// and never pass through pending.
type ReviewState string

// Possible review state values
const (
	ReviewStatePending  ReviewState = "pending"
	ReviewStateAccepted ReviewState = "accepted"
	ReviewStateRejected ReviewState = "rejected"
)

// Length limits for flashcard text fields, applied after trimming.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// Flashcard-specific validation errors
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is empty or nil.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardUserIDEmpty is returned when a flashcard's user ID is empty or nil.
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")

	// ErrInvalidCreationMethod is returned for an unknown creation method value.
	ErrInvalidCreationMethod = errors.New("invalid creation method")

	// ErrInvalidReviewState is returned for an unknown review state value.
	ErrInvalidReviewState = errors.New("invalid review state")

	// ErrCandidateSessionEmpty is returned when an AI candidate has no session reference.
	ErrCandidateSessionEmpty = errors.New("AI-generated flashcard must reference a generation session")

	// ErrNotPending is returned when a review transition is attempted on a
	// flashcard that is no longer in the pending state.
	ErrNotPending = errors.New("flashcard is not pending review")
)

// Flashcard is the central entity: a user-owned card with a front (prompt)
// and back (answer). AI-generated candidates are regular flashcard rows
// created in the pending review state and promoted in place on accept.
type Flashcard struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Front          string         `json:"front"`
	Back           string         `json:"back"`
	CreationMethod CreationMethod `json:"creation_method"`
	ReviewState    ReviewState    `json:"review_state"`
	SessionID      *uuid.UUID     `json:"session_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewManualFlashcard creates a user-authored flashcard. Manual cards are
// accepted immediately and carry no session reference.
// Returns an error if validation fails.
func NewManualFlashcard(userID uuid.UUID, front, back string) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		Front:          strings.TrimSpace(front),
		Back:           strings.TrimSpace(back),
		CreationMethod: CreationMethodManual,
		ReviewState:    ReviewStateAccepted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// NewCandidateFlashcard creates a pending flashcard produced by an AI
// generation session. The creation method is provisionally ai_full; the
// accept transition finalizes it based on edit detection.
// Returns an error if validation fails.
func NewCandidateFlashcard(userID, sessionID uuid.UUID, front, back string) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		Front:          strings.TrimSpace(front),
		Back:           strings.TrimSpace(back),
		CreationMethod: CreationMethodAIFull,
		ReviewState:    ReviewStatePending,
		SessionID:      &sessionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if err := ValidateFront(f.Front); err != nil {
		return err
	}

	if err := ValidateBack(f.Back); err != nil {
		return err
	}

	if !isValidCreationMethod(f.CreationMethod) {
		return ErrInvalidCreationMethod
	}

	if !isValidReviewState(f.ReviewState) {
		return ErrInvalidReviewState
	}

	// A pending card must have been produced by a session.
	if f.ReviewState == ReviewStatePending && f.SessionID == nil {
		return ErrCandidateSessionEmpty
	}

	return nil
}

// IsPending reports whether the flashcard is awaiting review.
func (f *Flashcard) IsPending() bool {
	return f.ReviewState == ReviewStatePending
}

// Accept transitions a pending candidate to accepted, overwriting its text
// with the (already validated) submitted values. Edit detection compares the
// trimmed submitted text against the trimmed stored text: any difference on
// either field yields ai_edited, an exact match yields ai_full.
// Returns ErrNotPending if the card has already been resolved.
func (f *Flashcard) Accept(front, back string) error {
	if f.ReviewState != ReviewStatePending {
		return ErrNotPending
	}

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	if err := ValidateFront(front); err != nil {
		return err
	}
	if err := ValidateBack(back); err != nil {
		return err
	}

	edited := front != strings.TrimSpace(f.Front) || back != strings.TrimSpace(f.Back)

	f.Front = front
	f.Back = back
	if edited {
		f.CreationMethod = CreationMethodAIEdited
	} else {
		f.CreationMethod = CreationMethodAIFull
	}
	f.ReviewState = ReviewStateAccepted
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject transitions a pending candidate to rejected. Content fields are
// left untouched so the original AI output stays available for analytics.
// Returns ErrNotPending if the card has already been resolved.
func (f *Flashcard) Reject() error {
	if f.ReviewState != ReviewStatePending {
		return ErrNotPending
	}

	f.ReviewState = ReviewStateRejected
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidCreationMethod checks if the given method is a known CreationMethod.
func isValidCreationMethod(method CreationMethod) bool {
	switch method {
	case CreationMethodManual, CreationMethodAIFull, CreationMethodAIEdited:
		return true
	default:
		return false
	}
}

// isValidReviewState checks if the given state is a known ReviewState.
func isValidReviewState(state ReviewState) bool {
	switch state {
	case ReviewStatePending, ReviewStateAccepted, ReviewStateRejected:
		return true
	default:
		return false
	}
}
