// Package service provides application-level services orchestrating flashcard
// generation, candidate review, and collection management.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them onto HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Returned for session-level ownership failures;
	// the API layer maps this to HTTP 403 Forbidden. Row-level ownership
	// failures are reported as not found instead, so responses never reveal
	// whether a flashcard exists under another account.
	ErrNotOwned = errors.New("resource is owned by another user")
)
