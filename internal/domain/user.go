package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrInvalidUserEmail  = errors.New("user email is invalid")
	ErrEmptyUserPassword = errors.New("user hashed password cannot be empty")
)

// User represents an account that owns flashcards and generation sessions.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and already-hashed
// password. Password hashing is the auth service's responsibility.
// Returns an error if validation fails.
func NewUser(email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidUserEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyUserPassword
	}

	return nil
}
