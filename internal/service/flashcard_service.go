package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/store"
)

// Pagination bounds for flashcard listing. Requested page sizes are clamped
// into [MinPageSize, MaxPageSize]; zero means DefaultPageSize.
const (
	MinPageSize     = 25
	MaxPageSize     = 50
	DefaultPageSize = 25
)

// DefaultSort orders listings newest first.
const DefaultSort = store.SortCreatedAtDesc

// FlashcardServiceError is a custom error type for flashcard service errors.
type FlashcardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for FlashcardServiceError.
func (e *FlashcardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flashcard service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flashcard service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FlashcardServiceError) Unwrap() error {
	return e.Err
}

// NewFlashcardServiceError creates a new FlashcardServiceError.
func NewFlashcardServiceError(operation, message string, err error) *FlashcardServiceError {
	return &FlashcardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ListParams carries raw listing parameters as submitted by the caller.
// Zero values select the defaults.
type ListParams struct {
	Page     int
	PageSize int
	Sort     string
}

// ListResult is one page of a user's accepted flashcards plus the total
// count needed to compute page links.
type ListResult struct {
	Cards      []*domain.Flashcard
	TotalCount int
	Page       int
	PageSize   int
}

// FlashcardService manages the user's flashcard collection: listing accepted
// cards, manual creation, and deletion.
type FlashcardService struct {
	flashcardStore store.FlashcardStore
	emitter        events.Emitter
	logger         *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	flashcardStore store.FlashcardStore,
	emitter events.Emitter,
	logger *slog.Logger,
) (*FlashcardService, error) {
	if flashcardStore == nil {
		return nil, fmt.Errorf("flashcardStore cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardService{
		flashcardStore: flashcardStore,
		emitter:        emitter,
		logger:         logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// normalizeParams applies defaults and bounds to raw listing parameters.
// Returns a domain.FieldError for an unsupported sort value.
func normalizeParams(params ListParams) (page int, size int, sort store.Sort, err error) {
	page = params.Page
	if page < 1 {
		page = 1
	}

	size = params.PageSize
	switch {
	case size == 0:
		size = DefaultPageSize
	case size < MinPageSize:
		size = MinPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	if params.Sort == "" {
		return page, size, DefaultSort, nil
	}

	sort = store.Sort(params.Sort)
	if !sort.IsValid() {
		return 0, 0, "", &domain.FieldError{
			Field:   "sort",
			Message: fmt.Sprintf("unsupported sort order %q", params.Sort),
		}
	}
	return page, size, sort, nil
}

// List returns one page of the user's accepted flashcards.
func (s *FlashcardService) List(
	ctx context.Context,
	userID uuid.UUID,
	params ListParams,
) (*ListResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page, size, sort, err := normalizeParams(params)
	if err != nil {
		return nil, err
	}

	filter := store.ListFilter{
		Sort:   sort,
		Limit:  size,
		Offset: (page - 1) * size,
	}

	cards, err := s.flashcardStore.ListForUser(ctx, userID, filter)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewFlashcardServiceError("list", "failed to list flashcards", err)
	}

	total, err := s.flashcardStore.CountForUser(ctx, userID)
	if err != nil {
		log.Error("failed to count flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewFlashcardServiceError("list", "failed to count flashcards", err)
	}

	return &ListResult{
		Cards:      cards,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
	}, nil
}

// CreateManual creates a user-authored flashcard. Manual cards join the
// collection immediately; they never pass through review.
// Returns a domain validation error when front or back is invalid.
func (s *FlashcardService) CreateManual(
	ctx context.Context,
	userID uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewManualFlashcard(userID, front, back)
	if err != nil {
		return nil, err
	}

	if err := s.flashcardStore.Create(ctx, card); err != nil {
		log.Error("failed to create manual flashcard",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewFlashcardServiceError("create_manual", "failed to save flashcard", err)
	}

	log.Info("manual flashcard created",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("user_id", userID.String()))

	return card, nil
}

// Delete removes a flashcard owned by the given user.
// Returns store.ErrFlashcardNotFound when the card does not exist for that
// owner, which includes cards owned by someone else.
func (s *FlashcardService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.flashcardStore.Delete(ctx, userID, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return NewFlashcardServiceError("delete", "failed to delete flashcard", err)
	}

	s.emitter.Emit(ctx, events.New(events.TypeCardDeleted, userID, map[string]any{
		"flashcard_id": id.String(),
	}))

	return nil
}
