package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/store"
)

// ReviewServiceError is a custom error type for review service errors.
type ReviewServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ReviewServiceError.
func (e *ReviewServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("review service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("review service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReviewServiceError) Unwrap() error {
	return e.Err
}

// NewReviewServiceError creates a new ReviewServiceError.
func NewReviewServiceError(operation, message string, err error) *ReviewServiceError {
	return &ReviewServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ReviewService implements the candidate review flow: accepting (optionally
// with edits) and rejecting pending flashcards produced by a generation
// session. Each decision resolves the candidate and bumps the session's
// decision counter in a single transaction.
type ReviewService struct {
	db             *sql.DB
	sessionStore   store.SessionStore
	flashcardStore store.FlashcardStore
	emitter        events.Emitter
	logger         *slog.Logger

	// runTx defaults to store.RunInTransaction; tests substitute it.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewReviewService creates a new ReviewService.
// It returns an error if any of the required dependencies are nil.
func NewReviewService(
	db *sql.DB,
	sessionStore store.SessionStore,
	flashcardStore store.FlashcardStore,
	emitter events.Emitter,
	logger *slog.Logger,
) (*ReviewService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if sessionStore == nil {
		return nil, fmt.Errorf("sessionStore cannot be nil")
	}
	if flashcardStore == nil {
		return nil, fmt.Errorf("flashcardStore cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewService{
		db:             db,
		sessionStore:   sessionStore,
		flashcardStore: flashcardStore,
		emitter:        emitter,
		logger:         logger.With(slog.String("component", "review_service")),
		runTx:          store.RunInTransaction,
	}, nil
}

// Accept resolves a pending candidate as accepted. When front or back is
// non-nil the submitted value replaces the stored text and the card is
// recorded as edited; nil keeps the AI-generated text.
//
// Returns store.ErrSessionNotFound when the session does not exist,
// ErrNotOwned when it belongs to another user, store.ErrFlashcardNotFound
// when the candidate is missing or already resolved, and a
// domain.FieldError when submitted text fails validation.
func (s *ReviewService) Accept(
	ctx context.Context,
	userID, sessionID, flashcardID uuid.UUID,
	front, back *string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.loadCandidate(ctx, userID, sessionID, flashcardID)
	if err != nil {
		return nil, err
	}

	newFront := card.Front
	if front != nil {
		newFront = *front
	}
	newBack := card.Back
	if back != nil {
		newBack = *back
	}

	if err := card.Accept(newFront, newBack); err != nil {
		return nil, err
	}

	if err := s.resolve(ctx, card); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.New(events.TypeCardAccepted, userID, map[string]any{
		"session_id":      sessionID.String(),
		"flashcard_id":    card.ID.String(),
		"creation_method": string(card.CreationMethod),
	}))

	log.Info("candidate accepted",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("session_id", sessionID.String()),
		slog.String("creation_method", string(card.CreationMethod)))

	return card, nil
}

// Reject resolves a pending candidate as rejected. The stored text is left
// untouched.
//
// Error contract matches Accept.
func (s *ReviewService) Reject(
	ctx context.Context,
	userID, sessionID, flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.loadCandidate(ctx, userID, sessionID, flashcardID)
	if err != nil {
		return nil, err
	}

	if err := card.Reject(); err != nil {
		return nil, err
	}

	if err := s.resolve(ctx, card); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.New(events.TypeCardRejected, userID, map[string]any{
		"session_id":   sessionID.String(),
		"flashcard_id": card.ID.String(),
	}))

	log.Info("candidate rejected",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("session_id", sessionID.String()))

	return card, nil
}

// loadCandidate checks session existence and ownership, then loads the
// pending candidate. Session ownership failures surface as ErrNotOwned;
// everything at the row level collapses into store.ErrFlashcardNotFound.
func (s *ReviewService) loadCandidate(
	ctx context.Context,
	userID, sessionID, flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve session for review",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, NewReviewServiceError("load_candidate", "failed to retrieve session", err)
	}

	if session.UserID != userID {
		log.Warn("session ownership mismatch during review",
			slog.String("session_id", sessionID.String()),
			slog.String("owner_id", session.UserID.String()),
			slog.String("requester_id", userID.String()))
		return nil, ErrNotOwned
	}

	card, err := s.flashcardStore.GetCandidate(ctx, flashcardID, sessionID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve candidate",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", flashcardID.String()))
		return nil, NewReviewServiceError("load_candidate", "failed to retrieve candidate", err)
	}

	return card, nil
}

// resolve persists the decision: the conditional state update and the session
// counter increment commit together. A lost race on the pending guard
// surfaces as store.ErrFlashcardNotFound from ResolvePending.
func (s *ReviewService) resolve(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.flashcardStore.WithTx(tx).ResolvePending(ctx, card); err != nil {
			return err
		}
		return s.sessionStore.WithTx(tx).IncrementDecision(ctx, *card.SessionID, card.ReviewState)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to persist review decision",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return NewReviewServiceError("resolve", "failed to persist decision", err)
	}

	return nil
}
