package handler

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/middleware"
	"pasarloak/internal/usecase"
	"pasarloak/pkg/response"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

// ListPendingDeals returns the negotiated deals waiting for the caller's
// approval, as buyer or as seller.
func (h *OfferHandler) ListPendingDeals(c echo.Context) error {
	user := middleware.CurrentUser(c)

	deals, err := h.offerUseCase.ListPendingDeals(c.Request().Context(), user)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deals)
}

// ConfirmDeal is the human approval that commits a negotiated sale.
func (h *OfferHandler) ConfirmDeal(c echo.Context) error {
	user := middleware.CurrentUser(c)

	if err := h.offerUseCase.ConfirmDeal(c.Request().Context(), user, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "confirmed"})
}

func (h *OfferHandler) RejectDeal(c echo.Context) error {
	user := middleware.CurrentUser(c)

	if err := h.offerUseCase.RejectDeal(c.Request().Context(), user, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "rejected"})
}

func (h *OfferHandler) ListProductOffers(c echo.Context) error {
	offers, err := h.offerUseCase.ListByProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offers)
}
