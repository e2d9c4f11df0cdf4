package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/api/middleware"
	"github.com/tenxcards/cards-api/internal/service"
)

// FlashcardHandler handles flashcard collection API requests.
type FlashcardHandler struct {
	flashcardService *service.FlashcardService
}

// NewFlashcardHandler creates a new FlashcardHandler with the given dependencies.
func NewFlashcardHandler(flashcardService *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
	}
}

// List handles GET /api/flashcards. Supported query parameters: page,
// page_size (clamped server-side), sort.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	params := service.ListParams{
		Sort: r.URL.Query().Get("sort"),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "page: must be an integer")
			return
		}
		params.Page = page
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "page_size: must be an integer")
			return
		}
		params.PageSize = size
	}

	result, err := h.flashcardService.List(r.Context(), userID, params)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	cards := make([]FlashcardResponse, len(result.Cards))
	for i, card := range result.Cards {
		cards[i] = NewFlashcardResponse(card)
	}

	RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Count:    result.TotalCount,
		Next:     pageLink(r, result, +1),
		Previous: pageLink(r, result, -1),
		Results:  cards,
	})
}

// pageLink builds the relative URL of an adjacent page, or nil when that
// page does not exist.
func pageLink(r *http.Request, result *service.ListResult, delta int) *string {
	target := result.Page + delta
	if target < 1 {
		return nil
	}

	totalPages := (result.TotalCount + result.PageSize - 1) / result.PageSize
	if target > totalPages {
		return nil
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(target))
	query.Set("page_size", strconv.Itoa(result.PageSize))
	if sort := r.URL.Query().Get("sort"); sort != "" {
		query.Set("sort", sort)
	}

	link := fmt.Sprintf("%s?%s", r.URL.Path, query.Encode())
	return &link
}

// Create handles POST /api/flashcards: manual card creation. Manual cards
// join the collection as accepted immediately.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateFlashcardRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	card, err := h.flashcardService.CreateManual(r.Context(), userID, req.Front, req.Back)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, NewFlashcardResponse(card))
}

// Delete handles DELETE /api/flashcards/{flashcardID}.
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	flashcardID, err := uuid.Parse(chi.URLParam(r, "flashcardID"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	if err := h.flashcardService.Delete(r.Context(), userID, flashcardID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
