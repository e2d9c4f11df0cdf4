package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/redact"
	"github.com/tenxcards/cards-api/internal/store"
)

// GenerationFailedCode is the stable machine-readable code recorded on a
// session when a generation attempt fails, whatever the underlying cause.
const GenerationFailedCode = "ai_generation_failed"

// GenerationFailedMessage is the only failure detail ever returned to the
// caller. Raw provider errors stay on the session row and in logs.
const GenerationFailedMessage = "Couldn't generate flashcards right now. Please try again."

// GenerationServiceError is a custom error type for generation service errors.
type GenerationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
func NewGenerationServiceError(operation, message string, err error) *GenerationServiceError {
	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GenerationResult is the outcome of one generation attempt. Success is false
// when the LLM call failed; the session still exists in that case and carries
// the failure code, so the attempt remains auditable.
type GenerationResult struct {
	Success    bool
	Session    *domain.GenerationSession
	Flashcards []*domain.Flashcard
}

// GenerationService orchestrates flashcard generation: it persists the
// session before calling the LLM, filters the returned proposals, and stores
// surviving candidates together with the session outcome in one transaction.
type GenerationService struct {
	db             *sql.DB
	sessionStore   store.SessionStore
	flashcardStore store.FlashcardStore
	generator      generation.Generator
	emitter        events.Emitter
	timeout        time.Duration
	logger         *slog.Logger

	// runTx defaults to store.RunInTransaction; tests substitute it.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	db *sql.DB,
	sessionStore store.SessionStore,
	flashcardStore store.FlashcardStore,
	generator generation.Generator,
	emitter events.Emitter,
	timeout time.Duration,
	logger *slog.Logger,
) (*GenerationService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if sessionStore == nil {
		return nil, fmt.Errorf("sessionStore cannot be nil")
	}
	if flashcardStore == nil {
		return nil, fmt.Errorf("flashcardStore cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GenerationService{
		db:             db,
		sessionStore:   sessionStore,
		flashcardStore: flashcardStore,
		generator:      generator,
		emitter:        emitter,
		timeout:        timeout,
		logger:         logger.With(slog.String("component", "generation_service")),
		runTx:          store.RunInTransaction,
	}, nil
}

// GenerateFlashcards runs one generation attempt for the given user.
//
// The session row is created before the LLM is called so failed attempts are
// recorded too. A failed LLM call returns a GenerationResult with Success
// false and a nil error: the attempt resolved, just not with cards. Errors
// are reserved for invalid input and infrastructure failures.
func (s *GenerationService) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if fieldErr := domain.ValidateInputText(inputText); fieldErr != nil {
		return nil, fieldErr
	}
	inputText = strings.TrimSpace(inputText)

	session, err := domain.NewGenerationSession(userID, inputText, s.generator.ModelName())
	if err != nil {
		return nil, NewGenerationServiceError("generate", "failed to create session", err)
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to persist generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, NewGenerationServiceError("generate", "failed to save session", err)
	}

	s.emitter.Emit(ctx, events.New(events.TypeGenerationStarted, userID, map[string]any{
		"session_id": session.ID.String(),
		"model":      session.Model,
	}))

	llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	proposals, genErr := s.generator.GenerateCards(llmCtx, inputText)
	elapsedMs := time.Since(start).Milliseconds()

	if genErr != nil {
		return s.resolveFailure(ctx, session, genErr, elapsedMs)
	}

	cards := s.buildCandidates(ctx, session, proposals)

	session.MarkCompleted(len(cards), elapsedMs)

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if len(cards) > 0 {
			if err := s.flashcardStore.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
				return fmt.Errorf("failed to save candidates: %w", err)
			}
		}
		if err := s.sessionStore.WithTx(tx).UpdateResult(ctx, session); err != nil {
			return fmt.Errorf("failed to record session result: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to persist generation outcome",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, NewGenerationServiceError("generate", "failed to persist outcome", err)
	}

	s.emitter.Emit(ctx, events.New(events.TypeGenerationCompleted, userID, map[string]any{
		"session_id":           session.ID.String(),
		"model":                session.Model,
		"proposal_count":       len(proposals),
		"generated_count":      len(cards),
		"api_response_time_ms": elapsedMs,
	}))

	log.Info("generation attempt completed",
		slog.String("session_id", session.ID.String()),
		slog.Int("generated_count", len(cards)),
		slog.Int64("api_response_time_ms", elapsedMs))

	return &GenerationResult{
		Success:    true,
		Session:    session,
		Flashcards: cards,
	}, nil
}

// resolveFailure records a failed LLM call on the session. The raw error is
// redacted before it touches the session row or the log.
func (s *GenerationService) resolveFailure(
	ctx context.Context,
	session *domain.GenerationSession,
	genErr error,
	elapsedMs int64,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	detail := redact.Error(genErr)
	session.MarkFailed(GenerationFailedCode, detail)
	session.APIResponseTimeMs = &elapsedMs

	if err := s.sessionStore.UpdateResult(ctx, session); err != nil {
		log.Error("failed to record generation failure",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, NewGenerationServiceError("generate", "failed to record failure", err)
	}

	s.emitter.Emit(ctx, events.New(events.TypeGenerationFailed, session.UserID, map[string]any{
		"session_id": session.ID.String(),
		"model":      session.Model,
		"error_code": GenerationFailedCode,
	}))

	log.Warn("generation attempt failed",
		slog.String("session_id", session.ID.String()),
		slog.String("error", detail),
		slog.Int64("api_response_time_ms", elapsedMs))

	return &GenerationResult{
		Success: false,
		Session: session,
	}, nil
}

// buildCandidates converts LLM proposals into pending flashcards, dropping
// any proposal whose trimmed front or back fails validation. Model output
// order is preserved. An empty result is not an error.
func (s *GenerationService) buildCandidates(
	ctx context.Context,
	session *domain.GenerationSession,
	proposals []generation.CardProposal,
) []*domain.Flashcard {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards := make([]*domain.Flashcard, 0, len(proposals))
	for i, proposal := range proposals {
		card, err := domain.NewCandidateFlashcard(session.UserID, session.ID, proposal.Front, proposal.Back)
		if err != nil {
			log.Warn("dropping invalid candidate",
				slog.String("session_id", session.ID.String()),
				slog.Int("proposal_index", i),
				slog.String("error", err.Error()))
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// GetSession retrieves a generation session owned by the given user.
// Returns store.ErrSessionNotFound when no such session exists and
// ErrNotOwned when it belongs to another user.
func (s *GenerationService) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.GenerationSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, NewGenerationServiceError("get_session", "failed to retrieve session", err)
	}

	if session.UserID != userID {
		log.Warn("session ownership mismatch",
			slog.String("session_id", sessionID.String()),
			slog.String("owner_id", session.UserID.String()),
			slog.String("requester_id", userID.String()))
		return nil, ErrNotOwned
	}

	return session, nil
}
