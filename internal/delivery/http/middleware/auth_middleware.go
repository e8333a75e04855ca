package middleware

import (
	"strings"

	"authd/internal/delivery/http/response"
	"authd/internal/domain/entity"
	"authd/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ContextKeyCurrentUser is the echo.Context key under which the
// authenticated user is stored for handlers.
const ContextKeyCurrentUser = "currentUser"

// AuthMiddleware provides middleware for bearer-token authentication.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the bearer token and resolves the current user.
// Invalid, expired and orphaned tokens all yield the same 401 response.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		user, err := m.authUsecase.CurrentUser(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Could not validate credentials")
		}

		c.Set(ContextKeyCurrentUser, user)

		return next(c)
	}
}

// CurrentUser extracts the authenticated user set by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(ContextKeyCurrentUser).(*entity.User)

	return user, ok
}
