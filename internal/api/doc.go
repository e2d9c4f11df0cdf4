// Package api contains the HTTP handlers, request/response models, and
// error mapping for the flashcards service. Handlers translate between the
// wire format and the service layer; they hold no business rules of their
// own.
package api
