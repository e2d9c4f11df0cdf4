package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/service"
)

func newFlashcardHandler(t *testing.T, cardStore *fakeFlashcardStore) *FlashcardHandler {
	t.Helper()
	svc, err := service.NewFlashcardService(cardStore, events.NewInMemoryEmitter(nil), slog.Default())
	require.NoError(t, err)
	return NewFlashcardHandler(svc)
}

func TestFlashcardHandlerList(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("single page has no links", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		base := time.Now().UTC()
		seedAcceptedCard(cardStore, userID, "older", base.Add(-time.Hour))
		seedAcceptedCard(cardStore, userID, "newer", base)
		handler := newFlashcardHandler(t, cardStore)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/flashcards", nil), userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp FlashcardListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
		assert.Nil(t, resp.Next)
		assert.Nil(t, resp.Previous)
		require.Len(t, resp.Results, 2)
		// Default sort is newest first.
		assert.Equal(t, "newer", resp.Results[0].Front)
	})

	t.Run("middle page links to both neighbors", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		base := time.Now().UTC()
		for i := 0; i < 60; i++ {
			seedAcceptedCard(cardStore, userID, "card", base.Add(-time.Duration(i)*time.Minute))
		}
		handler := newFlashcardHandler(t, cardStore)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/flashcards?page=2&page_size=25", nil), userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp FlashcardListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 60, resp.Count)
		assert.Len(t, resp.Results, 25)
		require.NotNil(t, resp.Next)
		assert.Equal(t, "/api/flashcards?page=3&page_size=25", *resp.Next)
		require.NotNil(t, resp.Previous)
		assert.Equal(t, "/api/flashcards?page=1&page_size=25", *resp.Previous)
	})

	t.Run("oversized page size is clamped", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		base := time.Now().UTC()
		for i := 0; i < 55; i++ {
			seedAcceptedCard(cardStore, userID, "card", base.Add(-time.Duration(i)*time.Minute))
		}
		handler := newFlashcardHandler(t, cardStore)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/flashcards?page_size=500", nil), userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp FlashcardListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 50)
		require.NotNil(t, resp.Next)
		assert.Contains(t, *resp.Next, "page_size=50")
	})

	t.Run("non-integer page", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/flashcards?page=two", nil), userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported sort field", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/flashcards?sort=front", nil), userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "sort")
	})
}

func TestFlashcardHandlerCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates an accepted manual card", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		handler := newFlashcardHandler(t, cardStore)

		body := strings.NewReader(`{"front": "  What is Go?  ", "back": "A programming language."}`)
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/flashcards", body), userID)
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp FlashcardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "What is Go?", resp.Front)
		assert.Equal(t, "manual", resp.CreationMethod)
		assert.Equal(t, "accepted", resp.ReviewState)
		assert.Nil(t, resp.SessionID)
		assert.Contains(t, cardStore.cards, resp.ID)
	})

	t.Run("rejects blank front", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		body := strings.NewReader(`{"front": "   ", "back": "something"}`)
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/flashcards", body), userID)
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "front")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/flashcards", strings.NewReader("{not json")), userID)
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFlashcardHandlerDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("deletes an owned card", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		card := seedAcceptedCard(cardStore, userID, "doomed", time.Now().UTC())
		handler := newFlashcardHandler(t, cardStore)

		req := withUser(httptest.NewRequest(http.MethodDelete, "/api/flashcards/"+card.ID.String(), nil), userID)
		req = withURLParam(req, "flashcardID", card.ID.String())
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.NotContains(t, cardStore.cards, card.ID)
	})

	t.Run("another user's card reads as missing", func(t *testing.T) {
		t.Parallel()
		cardStore := newFakeFlashcardStore()
		card := seedAcceptedCard(cardStore, uuid.New(), "not yours", time.Now().UTC())
		handler := newFlashcardHandler(t, cardStore)

		req := withUser(httptest.NewRequest(http.MethodDelete, "/api/flashcards/"+card.ID.String(), nil), userID)
		req = withURLParam(req, "flashcardID", card.ID.String())
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, cardStore.cards, card.ID)
	})

	t.Run("invalid flashcard ID", func(t *testing.T) {
		t.Parallel()
		handler := newFlashcardHandler(t, newFakeFlashcardStore())

		req := withUser(httptest.NewRequest(http.MethodDelete, "/api/flashcards/not-a-uuid", nil), userID)
		req = withURLParam(req, "flashcardID", "not-a-uuid")
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
