package handler

import (
	"github.com/labstack/echo/v4"

	"pasarloak/internal/adapter/api/middleware"
	"pasarloak/internal/usecase"
	"pasarloak/pkg/response"
)

type NegotiationHandler struct {
	negotiationUseCase *usecase.NegotiationUseCase
}

func NewNegotiationHandler(negotiationUseCase *usecase.NegotiationUseCase) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationUseCase: negotiationUseCase,
	}
}

// Negotiate starts one agent-to-agent negotiation for a product on
// behalf of the authenticated buyer. A successful negotiation lands in
// pending_confirmation and waits for a human to confirm.
func (h *NegotiationHandler) Negotiate(c echo.Context) error {
	user := middleware.CurrentUser(c)

	result, err := h.negotiationUseCase.Negotiate(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// AutoBrowse lets the buyer's agent scan the market, shortlist items and
// negotiate each one in turn.
func (h *NegotiationHandler) AutoBrowse(c echo.Context) error {
	user := middleware.CurrentUser(c)

	results, err := h.negotiationUseCase.AutoBrowse(c.Request().Context(), user)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"results": results})
}
