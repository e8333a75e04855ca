package auth

import (
	"testing"
	"time"

	"authd/config"
	"authd/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{TokenTTL: ttl},
	}
	cfg.SecretKey.Access = secret

	return cfg
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_secret_key_very_long_for_testing", 30*time.Minute))
	require.NoError(t, err)

	token, err := jwtService.Issue("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := jwtService.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(newTestConfig("", 30*time.Minute))
	assert.Error(t, err)
}

func TestJWTService_VerifyExpiredToken(t *testing.T) {
	// Negative TTL issues a token that is already past its expiry.
	jwtService, err := NewJWTService(newTestConfig("test_secret_key_very_long_for_testing", -time.Minute))
	require.NoError(t, err)

	token, err := jwtService.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = jwtService.Verify(token)
	assert.ErrorIs(t, err, service.ErrExpiredToken)
}

func TestJWTService_VerifyWrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig("issuer_secret_key_very_long_for_testing", 30*time.Minute))
	require.NoError(t, err)

	verifier, err := NewJWTService(newTestConfig("another_secret_key_very_long_for_testing", 30*time.Minute))
	require.NoError(t, err)

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_VerifyMalformedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_secret_key_very_long_for_testing", 30*time.Minute))
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := jwtService.Verify(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	}
}

func TestJWTService_VerifyWrongAlgorithm(t *testing.T) {
	secret := "test_secret_key_very_long_for_testing"
	jwtService, err := NewJWTService(newTestConfig(secret, 30*time.Minute))
	require.NoError(t, err)

	// A token signed with "none" must be rejected even with a valid payload.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.Verify(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_VerifyMissingSubject(t *testing.T) {
	secret := "test_secret_key_very_long_for_testing"
	jwtService, err := NewJWTService(newTestConfig(secret, 30*time.Minute))
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := noSubject.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = jwtService.Verify(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_TTL(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_secret_key_very_long_for_testing", 30*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, jwtService.TTL())
}
