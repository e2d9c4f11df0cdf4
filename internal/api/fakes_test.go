package api

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/api/shared"
	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/store"
)

// Handler tests run against real services wired to these in-memory stores.

type fakeFlashcardStore struct {
	cards map[uuid.UUID]*domain.Flashcard
}

var _ store.FlashcardStore = (*fakeFlashcardStore)(nil)

func newFakeFlashcardStore() *fakeFlashcardStore {
	return &fakeFlashcardStore{cards: make(map[uuid.UUID]*domain.Flashcard)}
}

func (s *fakeFlashcardStore) Create(_ context.Context, card *domain.Flashcard) error {
	copied := *card
	s.cards[card.ID] = &copied
	return nil
}

func (s *fakeFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeFlashcardStore) GetCandidate(_ context.Context, id, sessionID, userID uuid.UUID) (*domain.Flashcard, error) {
	card, found := s.cards[id]
	if !found || card.UserID != userID || !card.IsPending() ||
		card.SessionID == nil || *card.SessionID != sessionID {
		return nil, store.ErrFlashcardNotFound
	}
	copied := *card
	return &copied, nil
}

func (s *fakeFlashcardStore) ListForUser(_ context.Context, userID uuid.UUID, filter store.ListFilter) ([]*domain.Flashcard, error) {
	accepted := s.acceptedFor(userID)
	if filter.Offset >= len(accepted) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(accepted) {
		end = len(accepted)
	}
	return accepted[filter.Offset:end], nil
}

func (s *fakeFlashcardStore) CountForUser(_ context.Context, userID uuid.UUID) (int, error) {
	return len(s.acceptedFor(userID)), nil
}

func (s *fakeFlashcardStore) acceptedFor(userID uuid.UUID) []*domain.Flashcard {
	var accepted []*domain.Flashcard
	for _, card := range s.cards {
		if card.UserID == userID && card.ReviewState == domain.ReviewStateAccepted {
			copied := *card
			accepted = append(accepted, &copied)
		}
	}
	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].CreatedAt.After(accepted[j].CreatedAt)
	})
	return accepted
}

func (s *fakeFlashcardStore) ResolvePending(_ context.Context, card *domain.Flashcard) error {
	stored, found := s.cards[card.ID]
	if !found || !stored.IsPending() {
		return store.ErrFlashcardNotFound
	}
	copied := *card
	s.cards[card.ID] = &copied
	return nil
}

func (s *fakeFlashcardStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	card, found := s.cards[id]
	if !found || card.UserID != userID {
		return store.ErrFlashcardNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *fakeFlashcardStore) WithTx(_ *sql.Tx) store.FlashcardStore { return s }

type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.GenerationSession
}

var _ store.SessionStore = (*fakeSessionStore)(nil)

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.GenerationSession)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *domain.GenerationSession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.GenerationSession, error) {
	session, found := s.sessions[id]
	if !found {
		return nil, store.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) UpdateResult(_ context.Context, session *domain.GenerationSession) error {
	stored, found := s.sessions[session.ID]
	if !found {
		return store.ErrSessionNotFound
	}
	stored.GeneratedCount = session.GeneratedCount
	stored.ErrorCode = session.ErrorCode
	stored.ErrorMessage = session.ErrorMessage
	stored.APIResponseTimeMs = session.APIResponseTimeMs
	return nil
}

func (s *fakeSessionStore) IncrementDecision(_ context.Context, id uuid.UUID, state domain.ReviewState) error {
	stored, found := s.sessions[id]
	if !found {
		return store.ErrSessionNotFound
	}
	switch state {
	case domain.ReviewStateAccepted:
		stored.AcceptedCount++
	case domain.ReviewStateRejected:
		stored.RejectedCount++
	default:
		return domain.ErrInvalidReviewState
	}
	return nil
}

func (s *fakeSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return s }

type fakeGenerator struct {
	proposals []generation.CardProposal
	err       error
}

var _ generation.Generator = (*fakeGenerator)(nil)

func (g *fakeGenerator) GenerateCards(_ context.Context, _ string) ([]generation.CardProposal, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.proposals, nil
}

func (g *fakeGenerator) ModelName() string { return "test-model" }

// withUser injects an authenticated user the way the auth middleware does.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx)
	return r.WithContext(ctx)
}

// seedAcceptedCard stores an accepted manual card with the given creation time.
func seedAcceptedCard(s *fakeFlashcardStore, userID uuid.UUID, front string, createdAt time.Time) *domain.Flashcard {
	card := &domain.Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		Front:          front,
		Back:           "back of " + front,
		CreationMethod: domain.CreationMethodManual,
		ReviewState:    domain.ReviewStateAccepted,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	s.cards[card.ID] = card
	return card
}
