package router

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupOfferRouter(e, authMiddleware)
	SetupNegotiationRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
