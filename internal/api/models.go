package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// GenerateRequest defines the payload for the flashcard generation endpoint.
// Length bounds are enforced by the domain after trimming, not by tags.
type GenerateRequest struct {
	InputText string `json:"input_text"`
}

// FlashcardResponse is the wire representation of one flashcard.
type FlashcardResponse struct {
	ID             uuid.UUID  `json:"id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	CreationMethod string     `json:"creation_method"`
	ReviewState    string     `json:"review_state"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewFlashcardResponse converts a domain flashcard to its wire form.
func NewFlashcardResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:             card.ID,
		Front:          card.Front,
		Back:           card.Back,
		CreationMethod: string(card.CreationMethod),
		ReviewState:    string(card.ReviewState),
		SessionID:      card.SessionID,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

// GenerateResponse defines the successful response for the generation
// endpoint: the session plus the pending candidates awaiting review.
type GenerateResponse struct {
	SessionID           uuid.UUID           `json:"session_id"`
	GeneratedCount      int                 `json:"generated_count"`
	GeneratedFlashcards []FlashcardResponse `json:"generated_flashcards"`
}

// GenerateErrorResponse defines the failure response for the generation
// endpoint. Message is always the generic user-safe text; the session ID
// lets the client correlate with a later inquiry.
type GenerateErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	SessionID uuid.UUID `json:"session_id"`
}

// SessionResponse is the wire representation of a generation session,
// including review progress and the acceptance rate.
type SessionResponse struct {
	ID                uuid.UUID `json:"id"`
	Model             string    `json:"model"`
	GeneratedCount    int       `json:"generated_count"`
	AcceptedCount     int       `json:"accepted_count"`
	RejectedCount     int       `json:"rejected_count"`
	AcceptanceRate    *float64  `json:"acceptance_rate"`
	ErrorCode         string    `json:"error_code,omitempty"`
	APIResponseTimeMs *int64    `json:"api_response_time_ms,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewSessionResponse converts a domain session to its wire form. The stored
// input text and raw error message stay server-side.
func NewSessionResponse(session *domain.GenerationSession) SessionResponse {
	return SessionResponse{
		ID:                session.ID,
		Model:             session.Model,
		GeneratedCount:    session.GeneratedCount,
		AcceptedCount:     session.AcceptedCount,
		RejectedCount:     session.RejectedCount,
		AcceptanceRate:    session.AcceptanceRate(),
		ErrorCode:         session.ErrorCode,
		APIResponseTimeMs: session.APIResponseTimeMs,
		CreatedAt:         session.CreatedAt,
	}
}

// CreateFlashcardRequest defines the payload for manual flashcard creation.
// Content limits are enforced by the domain after trimming.
type CreateFlashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardListResponse is the paginated envelope for flashcard listing.
// Next and Previous are relative URLs, null when no such page exists.
type FlashcardListResponse struct {
	Count    int                 `json:"count"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
	Results  []FlashcardResponse `json:"results"`
}
