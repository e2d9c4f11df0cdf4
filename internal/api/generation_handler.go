package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/api/middleware"
	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
)

// GenerationHandler handles flashcard generation API requests.
type GenerationHandler struct {
	generationService *service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler with the given dependencies.
func NewGenerationHandler(generationService *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

// Generate handles POST /api/generations. It runs one synchronous generation
// attempt and returns the pending candidates for review.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req GenerateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.generationService.GenerateFlashcards(r.Context(), userID, req.InputText)
	if err != nil {
		var fieldErr *domain.FieldError
		if errors.As(err, &fieldErr) {
			RespondWithError(w, r, http.StatusBadRequest, fieldErr.Error())
			return
		}
		RespondWithMappedError(w, r, err)
		return
	}

	if !result.Success {
		// The attempt itself is recorded; the caller gets the stable code
		// and the generic message, never provider detail.
		RespondWithJSON(w, r, http.StatusInternalServerError, GenerateErrorResponse{
			Error:     result.Session.ErrorCode,
			Message:   service.GenerationFailedMessage,
			SessionID: result.Session.ID,
		})
		return
	}

	cards := make([]FlashcardResponse, len(result.Flashcards))
	for i, card := range result.Flashcards {
		cards[i] = NewFlashcardResponse(card)
	}

	RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		SessionID:           result.Session.ID,
		GeneratedCount:      result.Session.GeneratedCount,
		GeneratedFlashcards: cards,
	})
}

// GetSession handles GET /api/generations/{sessionID}. It reports the
// session's outcome and review progress for the owning user.
func (h *GenerationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.generationService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(session))
}
