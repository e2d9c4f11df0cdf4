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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SessionStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.GenerationSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO generation_sessions
			(id, user_id, input_text, model, generated_count, accepted_count, rejected_count,
			 error_code, error_message, api_response_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.InputText,
		session.Model,
		session.GeneratedCount,
		session.AcceptedCount,
		session.RejectedCount,
		nullString(session.ErrorCode),
		nullString(session.ErrorMessage),
		nullInt64(session.APIResponseTimeMs),
		session.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during session creation",
				slog.String("session_id", session.ID.String()),
				slog.String("user_id", session.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, session.UserID)
		}

		log.Error("failed to create generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("generation session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("model", session.Model))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, input_text, model, generated_count, accepted_count, rejected_count,
		       error_code, error_message, api_response_time_ms, created_at
		FROM generation_sessions
		WHERE id = $1
	`

	var session domain.GenerationSession
	var errorCode, errorMessage sql.NullString
	var responseTime sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.InputText,
		&session.Model,
		&session.GeneratedCount,
		&session.AcceptedCount,
		&session.RejectedCount,
		&errorCode,
		&errorMessage,
		&responseTime,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation session not found",
				slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get generation session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	session.ErrorCode = errorCode.String
	session.ErrorMessage = errorMessage.String
	if responseTime.Valid {
		session.APIResponseTimeMs = &responseTime.Int64
	}

	return &session, nil
}

// UpdateResult implements store.SessionStore.UpdateResult
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) UpdateResult(ctx context.Context, session *domain.GenerationSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generation_sessions
		SET generated_count = $1, error_code = $2, error_message = $3, api_response_time_ms = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.GeneratedCount,
		nullString(session.ErrorCode),
		nullString(session.ErrorMessage),
		nullInt64(session.APIResponseTimeMs),
		session.ID,
	)

	if err != nil {
		log.Error("failed to update generation session result",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("generation session not found for result update",
			slog.String("session_id", session.ID.String()))
		return store.ErrSessionNotFound
	}

	log.Info("generation session result recorded",
		slog.String("session_id", session.ID.String()),
		slog.Int("generated_count", session.GeneratedCount),
		slog.String("error_code", session.ErrorCode))
	return nil
}

// IncrementDecision implements store.SessionStore.IncrementDecision
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) IncrementDecision(
	ctx context.Context,
	id uuid.UUID,
	state domain.ReviewState,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query string
	switch state {
	case domain.ReviewStateAccepted:
		query = `UPDATE generation_sessions SET accepted_count = accepted_count + 1 WHERE id = $1`
	case domain.ReviewStateRejected:
		query = `UPDATE generation_sessions SET rejected_count = rejected_count + 1 WHERE id = $1`
	default:
		return fmt.Errorf("%w: %s is not a review decision", domain.ErrInvalidReviewState, state)
	}

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to increment session decision counter",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()),
			slog.String("state", string(state)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "generation session"); err != nil {
		log.Debug("generation session not found for counter increment",
			slog.String("session_id", id.String()))
		return fmt.Errorf("%w: %v", store.ErrSessionNotFound, err)
	}

	return nil
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt64 converts a nil pointer to SQL NULL.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
