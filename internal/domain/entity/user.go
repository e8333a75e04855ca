// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single registered account.
type User struct {
	ID           uuid.UUID // The unique identifier for the user, assigned at creation.
	Name         string    // The user's display name.
	Email        string    // The user's email, unique across all records and used as the login key.
	PasswordHash string    // The bcrypt hash of the user's password. The plaintext is never stored.
	CreatedAt    time.Time // Timestamp of when this account was created.
}
