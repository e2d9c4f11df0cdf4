package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// orderByClause maps a validated sort order onto a SQL ORDER BY expression.
// The secondary id ordering keeps pagination stable when timestamps collide.
func orderByClause(sort store.Sort) string {
	switch sort {
	case store.SortCreatedAtAsc:
		return "created_at ASC, id ASC"
	case store.SortUpdatedAtAsc:
		return "updated_at ASC, id ASC"
	case store.SortUpdatedAtDesc:
		return "updated_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// Create implements store.FlashcardStore.Create
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (id, user_id, front, back, creation_method, review_state, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.Front,
		card.Back,
		card.CreationMethod,
		card.ReviewState,
		sessionIDValue(card.SessionID),
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during flashcard creation",
				slog.String("flashcard_id", card.ID.String()),
				slog.String("user_id", card.UserID.String()))
			return fmt.Errorf("%w: referenced user or session not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return MapError(err)
	}

	log.Info("flashcard created successfully",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()),
		slog.String("review_state", string(card.ReviewState)))
	return nil
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to create flashcard %s: %w", card.ID, err)
		}
	}
	return nil
}

// GetCandidate implements store.FlashcardStore.GetCandidate
// A row that exists but has the wrong owner, the wrong session, or is no
// longer pending is indistinguishable from a missing row.
func (s *PostgresFlashcardStore) GetCandidate(
	ctx context.Context,
	id, sessionID, userID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, front, back, creation_method, review_state, session_id, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND session_id = $2 AND user_id = $3 AND review_state = $4
	`

	card, err := scanFlashcard(s.db.QueryRowContext(
		ctx, query, id, sessionID, userID, domain.ReviewStatePending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("candidate not found",
				slog.String("flashcard_id", id.String()),
				slog.String("session_id", sessionID.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get candidate",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// ListForUser implements store.FlashcardStore.ListForUser
// Only accepted cards are part of the user's collection.
func (s *PostgresFlashcardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT id, user_id, front, back, creation_method, review_state, session_id, created_at, updated_at
		FROM flashcards
		WHERE user_id = $1 AND review_state = $2
		ORDER BY %s
		LIMIT $3 OFFSET $4
	`, orderByClause(filter.Sort))

	rows, err := s.db.QueryContext(
		ctx, query, userID, domain.ReviewStateAccepted, filter.Limit, filter.Offset)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return cards, nil
}

// CountForUser implements store.FlashcardStore.CountForUser
func (s *PostgresFlashcardStore) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM flashcards
		WHERE user_id = $1 AND review_state = $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, domain.ReviewStateAccepted).Scan(&count)
	if err != nil {
		log.Error("failed to count flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// ResolvePending implements store.FlashcardStore.ResolvePending
// The review_state = 'pending' guard makes the update a conditional
// check-and-set: a concurrent request that resolved the same candidate first
// leaves zero rows for this statement, which surfaces as not found.
func (s *PostgresFlashcardStore) ResolvePending(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during resolve",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, creation_method = $3, review_state = $4, updated_at = $5
		WHERE id = $6 AND session_id = $7 AND user_id = $8 AND review_state = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		card.CreationMethod,
		card.ReviewState,
		card.UpdatedAt,
		card.ID,
		sessionIDValue(card.SessionID),
		card.UserID,
		domain.ReviewStatePending,
	)

	if err != nil {
		log.Error("failed to resolve pending flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("candidate no longer pending or not found",
			slog.String("flashcard_id", card.ID.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("candidate resolved",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("review_state", string(card.ReviewState)),
		slog.String("creation_method", string(card.CreationMethod)))
	return nil
}

// Delete implements store.FlashcardStore.Delete
// Ownership is part of the WHERE clause; a row owned by someone else is
// reported as not found.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for delete",
			slog.String("flashcard_id", id.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard deleted",
		slog.String("flashcard_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanFlashcard scans one flashcard row in column order.
func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var creationMethod, reviewState string
	var sessionID uuid.NullUUID

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&creationMethod,
		&reviewState,
		&sessionID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.CreationMethod = domain.CreationMethod(creationMethod)
	card.ReviewState = domain.ReviewState(reviewState)
	if sessionID.Valid {
		card.SessionID = &sessionID.UUID
	}

	return &card, nil
}

// sessionIDValue converts the optional session reference into a driver value.
func sessionIDValue(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
