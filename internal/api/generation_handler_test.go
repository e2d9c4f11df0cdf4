package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/service"
)

func newGenerationHandler(
	t *testing.T,
	sessionStore *fakeSessionStore,
	cardStore *fakeFlashcardStore,
	generator *fakeGenerator,
) *GenerationHandler {
	t.Helper()
	svc, err := service.NewGenerationService(
		&sql.DB{},
		sessionStore,
		cardStore,
		generator,
		events.NewInMemoryEmitter(nil),
		30*time.Second,
		slog.Default(),
	)
	require.NoError(t, err)
	return NewGenerationHandler(svc)
}

func TestGenerationHandlerGenerate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		handler := newGenerationHandler(t, newFakeSessionStore(), newFakeFlashcardStore(), &fakeGenerator{})

		req := httptest.NewRequest(http.MethodPost, "/api/generations", strings.NewReader(`{"input_text": "text"}`))
		rec := httptest.NewRecorder()
		handler.Generate(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty input text", func(t *testing.T) {
		t.Parallel()
		sessionStore := newFakeSessionStore()
		handler := newGenerationHandler(t, sessionStore, newFakeFlashcardStore(), &fakeGenerator{})

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/generations", strings.NewReader(`{"input_text": "  "}`)), userID)
		rec := httptest.NewRecorder()
		handler.Generate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "input_text")
		// Invalid input never creates a session row.
		assert.Empty(t, sessionStore.sessions)
	})

	t.Run("gateway failure returns the generic envelope", func(t *testing.T) {
		t.Parallel()
		sessionStore := newFakeSessionStore()
		generator := &fakeGenerator{err: errors.New("upstream 503 from llm.internal:8443")}
		handler := newGenerationHandler(t, sessionStore, newFakeFlashcardStore(), generator)

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/generations", strings.NewReader(`{"input_text": "some source material"}`)), userID)
		rec := httptest.NewRecorder()
		handler.Generate(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp GenerateErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ai_generation_failed", resp.Error)
		assert.Equal(t, service.GenerationFailedMessage, resp.Message)
		assert.NotEqual(t, uuid.Nil, resp.SessionID)

		// Provider detail stays out of the response body.
		assert.NotContains(t, rec.Body.String(), "llm.internal")

		// The failed attempt is still recorded.
		session, found := sessionStore.sessions[resp.SessionID]
		require.True(t, found)
		assert.Equal(t, "ai_generation_failed", session.ErrorCode)
		assert.Zero(t, session.GeneratedCount)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()
		handler := newGenerationHandler(t, newFakeSessionStore(), newFakeFlashcardStore(), &fakeGenerator{})

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/generations", strings.NewReader("{oops")), userID)
		rec := httptest.NewRecorder()
		handler.Generate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGenerationHandlerGetSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	seedSession := func(t *testing.T, store *fakeSessionStore, owner uuid.UUID) *domain.GenerationSession {
		t.Helper()
		session, err := domain.NewGenerationSession(owner, "input", "test-model")
		require.NoError(t, err)
		session.GeneratedCount = 8
		session.AcceptedCount = 2
		store.sessions[session.ID] = session
		return session
	}

	t.Run("owner sees progress and acceptance rate", func(t *testing.T) {
		t.Parallel()
		sessionStore := newFakeSessionStore()
		session := seedSession(t, sessionStore, userID)
		handler := newGenerationHandler(t, sessionStore, newFakeFlashcardStore(), &fakeGenerator{})

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/generations/"+session.ID.String(), nil), userID)
		req = withURLParam(req, "sessionID", session.ID.String())
		rec := httptest.NewRecorder()
		handler.GetSession(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, session.ID, resp.ID)
		assert.Equal(t, 8, resp.GeneratedCount)
		assert.Equal(t, 2, resp.AcceptedCount)
		require.NotNil(t, resp.AcceptanceRate)
		assert.InDelta(t, 25.0, *resp.AcceptanceRate, 0.001)

		// Input text never leaves the server.
		assert.NotContains(t, rec.Body.String(), "input_text")
	})

	t.Run("another user's session is forbidden", func(t *testing.T) {
		t.Parallel()
		sessionStore := newFakeSessionStore()
		session := seedSession(t, sessionStore, uuid.New())
		handler := newGenerationHandler(t, sessionStore, newFakeFlashcardStore(), &fakeGenerator{})

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/generations/"+session.ID.String(), nil), userID)
		req = withURLParam(req, "sessionID", session.ID.String())
		rec := httptest.NewRecorder()
		handler.GetSession(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		handler := newGenerationHandler(t, newFakeSessionStore(), newFakeFlashcardStore(), &fakeGenerator{})

		missing := uuid.New()
		req := withUser(httptest.NewRequest(http.MethodGet, "/api/generations/"+missing.String(), nil), userID)
		req = withURLParam(req, "sessionID", missing.String())
		rec := httptest.NewRecorder()
		handler.GetSession(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid session ID", func(t *testing.T) {
		t.Parallel()
		handler := newGenerationHandler(t, newFakeSessionStore(), newFakeFlashcardStore(), &fakeGenerator{})

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/generations/not-a-uuid", nil), userID)
		req = withURLParam(req, "sessionID", "not-a-uuid")
		rec := httptest.NewRecorder()
		handler.GetSession(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
