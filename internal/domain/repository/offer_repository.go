package repository

import (
	"context"

	"pasarloak/internal/domain/entity"
)

// OfferRepository is the offer ledger: offers are append-mostly, each
// negotiation round creates or updates entries, and status changes are
// forward-only.
type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	// UpdateDecision attaches the seller's per-round decision to the
	// current offer before the next one is created.
	UpdateDecision(ctx context.Context, id string, decision string, counterPrice *float64) error
	// UpdateStatus moves an offer along the forward-only status graph;
	// it fails with INVALID_TRANSITION on any other move.
	UpdateStatus(ctx context.Context, id string, status string) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Offer, error)
	ListPendingConfirmationByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error)
	ListPendingConfirmationByProducts(ctx context.Context, productIDs []string) ([]*entity.Offer, error)
}
