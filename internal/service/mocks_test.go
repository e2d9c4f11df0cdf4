package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/store"
)

// passthroughTx substitutes store.RunInTransaction in tests: the fakes are
// not transactional, so the body just runs with a nil *sql.Tx.
func passthroughTx(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}

// fakeSessionStore is an in-memory store.SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.GenerationSession

	createErr error
	updateErr error
}

var _ store.SessionStore = (*fakeSessionStore)(nil)

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.GenerationSession)}
}

func (s *fakeSessionStore) Create(ctx context.Context, session *domain.GenerationSession) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) UpdateResult(ctx context.Context, session *domain.GenerationSession) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.ID]
	if !ok {
		return store.ErrSessionNotFound
	}
	stored.GeneratedCount = session.GeneratedCount
	stored.ErrorCode = session.ErrorCode
	stored.ErrorMessage = session.ErrorMessage
	stored.APIResponseTimeMs = session.APIResponseTimeMs
	return nil
}

func (s *fakeSessionStore) IncrementDecision(ctx context.Context, id uuid.UUID, state domain.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return store.ErrSessionNotFound
	}
	switch state {
	case domain.ReviewStateAccepted:
		session.AcceptedCount++
	case domain.ReviewStateRejected:
		session.RejectedCount++
	default:
		return domain.ErrInvalidReviewState
	}
	return nil
}

func (s *fakeSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return s }

// fakeFlashcardStore is an in-memory store.FlashcardStore.
type fakeFlashcardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Flashcard

	createErr  error
	resolveErr error
}

var _ store.FlashcardStore = (*fakeFlashcardStore)(nil)

func newFakeFlashcardStore() *fakeFlashcardStore {
	return &fakeFlashcardStore{cards: make(map[uuid.UUID]*domain.Flashcard)}
}

func (s *fakeFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
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

func (s *fakeFlashcardStore) GetCandidate(
	ctx context.Context,
	id, sessionID, userID uuid.UUID,
) (*domain.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok || card.UserID != userID || card.ReviewState != domain.ReviewStatePending ||
		card.SessionID == nil || *card.SessionID != sessionID {
		return nil, store.ErrFlashcardNotFound
	}
	copied := *card
	return &copied, nil
}

func (s *fakeFlashcardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Flashcard
	for _, card := range s.cards {
		if card.UserID == userID && card.ReviewState == domain.ReviewStateAccepted {
			copied := *card
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeFlashcardStore) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, card := range s.cards {
		if card.UserID == userID && card.ReviewState == domain.ReviewStateAccepted {
			count++
		}
	}
	return count, nil
}

func (s *fakeFlashcardStore) ResolvePending(ctx context.Context, card *domain.Flashcard) error {
	if s.resolveErr != nil {
		return s.resolveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.cards[card.ID]
	if !ok || stored.ReviewState != domain.ReviewStatePending {
		return store.ErrFlashcardNotFound
	}
	copied := *card
	s.cards[card.ID] = &copied
	return nil
}

func (s *fakeFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok || card.UserID != userID {
		return store.ErrFlashcardNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *fakeFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore { return s }

// fakeGenerator returns canned proposals or a canned error.
type fakeGenerator struct {
	proposals []generation.CardProposal
	err       error
	calls     int
}

var _ generation.Generator = (*fakeGenerator)(nil)

func (g *fakeGenerator) GenerateCards(ctx context.Context, inputText string) ([]generation.CardProposal, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.proposals, nil
}

func (g *fakeGenerator) ModelName() string { return "test-model" }

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

var _ events.Emitter = (*recordingEmitter)(nil)

func (e *recordingEmitter) Emit(ctx context.Context, event *events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) eventTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, len(e.events))
	for i, ev := range e.events {
		types[i] = ev.Type
	}
	return types
}

var errGatewayDown = errors.New("gateway unavailable")
