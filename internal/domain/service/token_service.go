package service

import (
	"errors"
	"time"
)

// Token verification errors. The usecase layer collapses both into a single
// unauthenticated outcome for callers, but the issuer discriminates them.
var (
	// ErrInvalidToken covers malformed input, wrong signature and wrong algorithm.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the signature is valid but the token
	// has passed its expiry instant.
	ErrExpiredToken = errors.New("token expired")
)

// TokenService defines the interface for issuing and verifying bearer tokens.
// This abstracts the details of token creation from the use cases.
//
// Tokens are stateless and self-describing: nothing is persisted, and a token
// is "destroyed" only by expiry. Rotating the signing secret invalidates all
// previously issued tokens; there is no grace-period key overlap.
type TokenService interface {
	// Issue creates a signed token asserting the subject's identity,
	// valid until now + TTL.
	Issue(subjectEmail string) (string, error)

	// Verify checks signature integrity first, then expiry, and returns the
	// embedded subject email. Fails with ErrInvalidToken or ErrExpiredToken.
	Verify(token string) (string, error)

	// TTL returns the configured token time-to-live.
	TTL() time.Duration
}
