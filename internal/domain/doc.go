// Package domain contains the core entities of the application:
// flashcards, AI generation sessions, and users, together with their
// validation rules and lifecycle transitions.
package domain
