package handler

import (
	"pasarloak/internal/usecase"
)

var (
	authHandler        *AuthHandler
	productHandler     *ProductHandler
	offerHandler       *OfferHandler
	negotiationHandler *NegotiationHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	productUseCase *usecase.ProductUseCase,
	offerUseCase *usecase.OfferUseCase,
	negotiationUseCase *usecase.NegotiationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	productHandler = NewProductHandler(productUseCase)
	offerHandler = NewOfferHandler(offerUseCase)
	negotiationHandler = NewNegotiationHandler(negotiationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetOfferHandler() *OfferHandler {
	return offerHandler
}

func GetNegotiationHandler() *NegotiationHandler {
	return negotiationHandler
}
