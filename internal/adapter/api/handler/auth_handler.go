package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/middleware"
	"pasarloak/internal/usecase"
	"pasarloak/pkg/logger"
	"pasarloak/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// Login redirects the browser to the SecondMe authorize page.
func (h *AuthHandler) Login(c echo.Context) error {
	selectAccount := c.QueryParam("switch") == "1"
	if selectAccount {
		clearTokenCookie(c)
	}

	return c.Redirect(http.StatusFound, h.authUseCase.LoginURL(randomState(), selectAccount))
}

// Callback finishes the OAuth code exchange and sets the session cookie.
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")

	result, err := h.authUseCase.HandleCallback(c.Request().Context(), code)
	if err != nil {
		logger.Error("OAuth callback failed: %v", err)
		return response.Error(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    result.AccessToken,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  result.ExpiresAt,
		Path:     "/",
	})

	return response.Success(c, result.User)
}

// Refresh renews the caller's agent credential.
func (h *AuthHandler) Refresh(c echo.Context) error {
	user := middleware.CurrentUser(c)

	updated, err := h.authUseCase.Refresh(c.Request().Context(), user)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	return response.Success(c, middleware.CurrentUser(c))
}

func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		Path:     "/",
	})
}

func randomState() string {
	return uuid.NewString()
}
