package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/api/middleware"
	"github.com/tenxcards/cards-api/internal/service"
)

// ReviewHandler handles candidate review API requests. Both endpoints take
// form-encoded bodies: flashcard_id plus optional front/back overrides on
// accept.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// reviewParams extracts the authenticated user, the session ID from the URL,
// and the flashcard ID from the form body.
func (h *ReviewHandler) reviewParams(
	w http.ResponseWriter,
	r *http.Request,
) (userID, sessionID, flashcardID uuid.UUID, ok bool) {
	userID, found := middleware.GetUserID(r)
	if !found {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	if err := r.ParseForm(); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid form data")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	flashcardID, err = uuid.Parse(r.PostFormValue("flashcard_id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "flashcard_id: must be a valid flashcard ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	return userID, sessionID, flashcardID, true
}

// Accept handles POST /api/generations/{sessionID}/accept. Omitted front or
// back fields keep the AI-generated text; supplied values count as edits.
// Success returns an empty body.
func (h *ReviewHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, flashcardID, ok := h.reviewParams(w, r)
	if !ok {
		return
	}

	var front, back *string
	if values, present := r.PostForm["front"]; present && len(values) > 0 {
		front = &values[0]
	}
	if values, present := r.PostForm["back"]; present && len(values) > 0 {
		back = &values[0]
	}

	if _, err := h.reviewService.Accept(r.Context(), userID, sessionID, flashcardID, front, back); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /api/generations/{sessionID}/reject.
// Success returns an empty body.
func (h *ReviewHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, flashcardID, ok := h.reviewParams(w, r)
	if !ok {
		return
	}

	if _, err := h.reviewService.Reject(r.Context(), userID, sessionID, flashcardID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
