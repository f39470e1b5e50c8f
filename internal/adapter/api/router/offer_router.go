package router

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/handler"
	"pasarloak/internal/adapter/api/middleware"
)

func SetupOfferRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	offerHandler := handler.GetOfferHandler()

	offers := e.Group("/v1/offers")
	offers.Use(authMiddleware.Authenticate)
	offers.POST("/:id/confirm", offerHandler.ConfirmDeal)
	offers.POST("/:id/reject", offerHandler.RejectDeal)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("/pending-deals", offerHandler.ListPendingDeals)

	products := e.Group("/v1/products")
	products.Use(authMiddleware.Authenticate)
	products.GET("/:id/offers", offerHandler.ListProductOffers)
}
