package router

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/handler"
	"pasarloak/internal/adapter/api/middleware"
)

func SetupNegotiationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	negotiationHandler := handler.GetNegotiationHandler()

	agent := e.Group("/v1/agent")
	agent.Use(authMiddleware.Authenticate)
	agent.POST("/products/:id/negotiate", negotiationHandler.Negotiate)

	ai := e.Group("/v1/ai")
	ai.Use(authMiddleware.Authenticate)
	ai.POST("/auto-browse", negotiationHandler.AutoBrowse)
}
