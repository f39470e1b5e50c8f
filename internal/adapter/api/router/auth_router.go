package router

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/handler"
	"pasarloak/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.GET("/login", authHandler.Login)
	auth.GET("/callback", authHandler.Callback)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("", authHandler.Me)
	me.POST("/refresh", authHandler.Refresh)
}
