// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authd/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the issued bearer token after a successful login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	User        *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., HTTP handlers) will depend on.
type AuthUsecase interface {
	// Register hashes the password and persists a new user.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a time-bound bearer token.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// CurrentUser resolves a bearer token back to the user it was issued for.
	CurrentUser(ctx context.Context, token string) (*entity.User, error)

	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// DeleteAccount removes the target account, allowed only when the
	// requester is deleting their own account.
	DeleteAccount(ctx context.Context, requesterID, targetID uuid.UUID) error
}
