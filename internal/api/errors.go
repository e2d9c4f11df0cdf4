package api

import (
	"errors"
	"net/http"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
	"github.com/tenxcards/cards-api/internal/service/auth"
	"github.com/tenxcards/cards-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var fieldErr *domain.FieldError
	switch {
	// Validation errors
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors. A candidate that lost a concurrent decision race
	// also lands here: nothing pending exists anymore.
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrNotPending):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var fieldErr *domain.FieldError
	switch {
	// Field validation failures name the offending field; that is safe.
	case errors.As(err, &fieldErr):
		return fieldErr.Error()

	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this generation session"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Generation session not found"

	case errors.Is(err, store.ErrFlashcardNotFound),
		errors.Is(err, domain.ErrNotPending):
		return "Flashcard not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError maps the error to a status code and safe message,
// logs the redacted detail, and writes the response.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
