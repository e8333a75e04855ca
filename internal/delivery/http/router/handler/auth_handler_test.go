package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/validator"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase is a canned-response implementation of usecase.AuthUsecase.
type stubAuthUsecase struct {
	registerOutput *usecase.RegisterOutput
	registerErr    error
	loginOutput    *usecase.LoginOutput
	loginErr       error
	currentUser    *entity.User
	currentErr     error
	listUsers      []*entity.User
	listErr        error
	deleteErr      error
}

func (s *stubAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return s.registerOutput, s.registerErr
}

func (s *stubAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.loginErr
}

func (s *stubAuthUsecase) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	return s.currentUser, s.currentErr
}

func (s *stubAuthUsecase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.listUsers, s.listErr
}

func (s *stubAuthUsecase) DeleteAccount(ctx context.Context, requesterID, targetID uuid.UUID) error {
	return s.deleteErr
}

// newTestServer wires a stub usecase into an echo instance the same way the
// real server does: validator, centralized error handler and auth middleware.
func newTestServer(uc usecase.AuthUsecase) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	authHandler := NewAuthHandler(uc, logger)
	authMiddleware := middleware.NewAuthMiddleware(uc)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	protectedGroup := e.Group("/auth")
	protectedGroup.Use(authMiddleware.Authenticate)
	protectedGroup.GET("/me", authHandler.Me)
	protectedGroup.GET("/users", authHandler.ListUsers)
	protectedGroup.DELETE("/users/:id", authHandler.DeleteUser)

	return e
}

func testUser() *entity.User {
	return &entity.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$12$hashed",
		CreatedAt:    time.Now(),
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{
		registerOutput: &usecase.RegisterOutput{User: user},
	})

	body := `{"name":"Test User","email":"test@example.com","password":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Email)
	// The password hash must never be serialized.
	assert.NotContains(t, rec.Body.String(), "$2a$12$hashed")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Register_MalformedEmail(t *testing.T) {
	e := newTestServer(&stubAuthUsecase{})

	body := `{"name":"Test User","email":"not-an-email","password":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	e := newTestServer(&stubAuthUsecase{
		registerErr: errors.Wrap(domainerrors.ErrDuplicateEmail, "registration failed"),
	})

	body := `{"name":"Test User","email":"taken@example.com","password":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_EMAIL")
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	e := newTestServer(&stubAuthUsecase{
		registerErr: errors.Wrap(domainerrors.ErrWeakPassword, "registration failed"),
	})

	body := `{"name":"Test User","email":"test@example.com","password":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "WEAK_PASSWORD")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{
		loginOutput: &usecase.LoginOutput{
			AccessToken: "signed.token.value",
			TokenType:   "bearer",
			User:        user,
		},
	})

	body := `{"email":"test@example.com","password":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "signed.token.value", envelope.Data.AccessToken)
	assert.Equal(t, "bearer", envelope.Data.TokenType)
	assert.Equal(t, user.Email, envelope.Data.User.Email)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestServer(&stubAuthUsecase{
		loginErr: errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"),
	})

	body := `{"email":"test@example.com","password":"wrong1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Me(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{currentUser: user})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer signed.token.value")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Email)
	assert.NotContains(t, rec.Body.String(), "$2a$12$hashed")
}

func TestAuthHandler_Me_MissingAndInvalidToken(t *testing.T) {
	e := newTestServer(&stubAuthUsecase{
		currentErr: errors.Wrap(domainerrors.ErrUnauthenticated, "token verification failed"),
	})

	// No Authorization header at all.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Header present but not a Bearer scheme.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer token the usecase rejects.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad.token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ListUsers(t *testing.T) {
	user := testUser()
	other := testUser()
	other.Email = "other@example.com"

	e := newTestServer(&stubAuthUsecase{
		currentUser: user,
		listUsers:   []*entity.User{user, other},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
	req.Header.Set("Authorization", "Bearer signed.token.value")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []UserView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestAuthHandler_DeleteUser_Forbidden(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{
		currentUser: user,
		deleteErr:   errors.Wrap(domainerrors.ErrForbidden, "cannot delete another user's account"),
	})

	req := httptest.NewRequest(http.MethodDelete, "/auth/users/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer signed.token.value")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestAuthHandler_DeleteUser_Success(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{currentUser: user})

	req := httptest.NewRequest(http.MethodDelete, "/auth/users/"+user.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer signed.token.value")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_DeleteUser_InvalidID(t *testing.T) {
	user := testUser()
	e := newTestServer(&stubAuthUsecase{currentUser: user})

	req := httptest.NewRequest(http.MethodDelete, "/auth/users/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer signed.token.value")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
