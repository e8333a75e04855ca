// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authd/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence. The application layer handles
// these outcomes without depending on database-specific errors.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a create collides with an existing
	// email. The uniqueness guarantee lives in the storage layer (unique
	// index), so concurrent creates for the same email yield exactly one
	// success.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
//
// Emails are normalized to lowercase at this boundary: implementations must
// store and look up the lowercased form so that lookups are exact-match
// against a canonical key.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user, assigning its ID and creation timestamp.
	// Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *entity.User) error

	// List retrieves all users ordered by creation time.
	List(ctx context.Context) ([]*entity.User, error)

	// Delete removes the user with the given ID.
	// Returns ErrUserNotFound when no such record exists.
	Delete(ctx context.Context, id uuid.UUID) error
}
