package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
)

type AuthMiddleware struct {
	userRepo repository.UserRepository
}

func NewAuthMiddleware(userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
	}
}

// Authenticate resolves the bearer token (Authorization header or token
// cookie) against the user store and rejects expired credentials. The
// resolved user is stored on the context under "user".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization is required")
		}

		user, err := m.userRepo.GetByAccessToken(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve user")
		}

		if !user.TokenExpiresAt.After(time.Now()) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
		}

		c.Set("user", user)
		return next(c)
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

// CurrentUser pulls the authenticated user set by Authenticate.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get("user").(*entity.User)
	return user
}
