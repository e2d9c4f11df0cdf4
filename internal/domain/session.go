package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for GenerationSession
var (
	ErrEmptySessionID     = errors.New("session ID cannot be empty")
	ErrEmptySessionUserID = errors.New("session user ID cannot be empty")
	ErrEmptySessionModel  = errors.New("session model cannot be empty")
)

// GenerationSession is the audit record of one attempt to produce flashcard
// candidates from input text. A session row is persisted before the LLM is
// called, so every attempt is recorded even when the call fails, and it is
// mutated exactly once afterwards with the outcome.
//
// AcceptedCount and RejectedCount are incremented at decision time, in the
// same transaction as the candidate's state change. Acceptance-rate analytics
// therefore stay stable when flashcards are later deleted.
type GenerationSession struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	InputText         string    `json:"input_text"`
	Model             string    `json:"model"`
	GeneratedCount    int       `json:"generated_count"`
	AcceptedCount     int       `json:"accepted_count"`
	RejectedCount     int       `json:"rejected_count"`
	ErrorCode         string    `json:"error_code,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	APIResponseTimeMs *int64    `json:"api_response_time_ms,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewGenerationSession creates a session record for a generation attempt
// that is about to start. GeneratedCount is zero and the error fields are
// empty until the attempt resolves.
// Returns an error if validation fails.
func NewGenerationSession(userID uuid.UUID, inputText, model string) (*GenerationSession, error) {
	session := &GenerationSession{
		ID:        uuid.New(),
		UserID:    userID,
		InputText: inputText,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the GenerationSession has valid data.
// Returns an error if any field fails validation.
func (s *GenerationSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.Model == "" {
		return ErrEmptySessionModel
	}

	if err := ValidateInputText(s.InputText); err != nil {
		return err
	}

	return nil
}

// MarkCompleted records a successful generation outcome: the number of
// candidates that survived validation and the wall-clock latency of the
// LLM call.
func (s *GenerationSession) MarkCompleted(generatedCount int, responseTimeMs int64) {
	s.GeneratedCount = generatedCount
	s.APIResponseTimeMs = &responseTimeMs
	s.ErrorCode = ""
	s.ErrorMessage = ""
}

// MarkFailed records a failed generation outcome. The message is the raw
// diagnostic detail; it lives only on the session row and in operational
// logs, never in responses to the caller.
func (s *GenerationSession) MarkFailed(code, message string) {
	s.GeneratedCount = 0
	s.ErrorCode = code
	s.ErrorMessage = message
}

// AcceptanceRate returns the percentage of generated candidates the user
// accepted, or nil when the session produced no candidates.
func (s *GenerationSession) AcceptanceRate() *float64 {
	if s.GeneratedCount == 0 {
		return nil
	}
	rate := float64(s.AcceptedCount) / float64(s.GeneratedCount) * 100
	return &rate
}
