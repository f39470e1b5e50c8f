package usecase

import (
	"context"
	"sort"
	"time"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
	"pasarloak/pkg/logger"
)

type OfferUseCase struct {
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:   offerRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// PendingDeal is the read model for an offer awaiting human confirmation.
type PendingDeal struct {
	OfferID         string    `json:"offer_id"`
	Role            string    `json:"role"`
	NegotiatedPrice float64   `json:"negotiated_price"`
	Message         string    `json:"message,omitempty"`
	ProductID       string    `json:"product_id"`
	ProductTitle    string    `json:"product_title"`
	ListPrice       float64   `json:"list_price"`
	Counterpart     string    `json:"counterpart"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListPendingDeals returns the deals the user has to approve or decline,
// both as buyer and as seller of the product, newest first.
func (uc *OfferUseCase) ListPendingDeals(ctx context.Context, user *entity.User) ([]PendingDeal, error) {
	deals := []PendingDeal{}

	buyerOffers, err := uc.offerRepo.ListPendingConfirmationByBuyer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, offer := range buyerOffers {
		deal, err := uc.buildDeal(ctx, offer, entity.RoleBuyer)
		if err != nil {
			logger.Warn("Skipping pending deal %s: %v", offer.ID, err)
			continue
		}
		deals = append(deals, *deal)
	}

	myProducts, _, err := uc.productRepo.ListBySellerID(ctx, user.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(myProducts))
	for _, p := range myProducts {
		productIDs = append(productIDs, p.ID)
	}

	sellerOffers, err := uc.offerRepo.ListPendingConfirmationByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, offer := range sellerOffers {
		deal, err := uc.buildDeal(ctx, offer, entity.RoleSeller)
		if err != nil {
			logger.Warn("Skipping pending deal %s: %v", offer.ID, err)
			continue
		}
		deals = append(deals, *deal)
	}

	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CreatedAt.After(deals[j].CreatedAt)
	})

	return deals, nil
}

// ConfirmDeal is the human approval gate: it moves the offer to accepted
// and marks the product sold. This is the only path that ever marks a
// product sold.
func (uc *OfferUseCase) ConfirmDeal(ctx context.Context, user *entity.User, offerID string) error {
	offer, product, err := uc.loadDeal(ctx, user, offerID)
	if err != nil {
		return err
	}

	if err := uc.offerRepo.UpdateStatus(ctx, offer.ID, entity.OfferStatusAccepted); err != nil {
		return err
	}
	if err := uc.productRepo.MarkSold(ctx, product.ID); err != nil {
		return err
	}

	logger.Info("Deal confirmed: offer=%s product=%s price=%.2f", offer.ID, product.ID, offer.Price)
	return nil
}

// RejectDeal declines a negotiated deal awaiting confirmation.
func (uc *OfferUseCase) RejectDeal(ctx context.Context, user *entity.User, offerID string) error {
	offer, _, err := uc.loadDeal(ctx, user, offerID)
	if err != nil {
		return err
	}

	return uc.offerRepo.UpdateStatus(ctx, offer.ID, entity.OfferStatusRejected)
}

// ListByProduct exposes the negotiation history of one product.
func (uc *OfferUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Offer, error) {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.offerRepo.ListByProduct(ctx, productID)
}

func (uc *OfferUseCase) loadDeal(ctx context.Context, user *entity.User, offerID string) (*entity.Offer, *entity.Product, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if offer.Status != entity.OfferStatusPendingConfirmation {
		return nil, nil, errors.BadRequest("Offer is not awaiting confirmation", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, offer.ProductID)
	if err != nil {
		return nil, nil, err
	}

	// Either side of the deal may confirm or decline.
	if offer.BuyerID != user.ID && product.SellerID != user.ID {
		return nil, nil, errors.Forbidden("Not a party to this deal", nil)
	}

	return offer, product, nil
}

func (uc *OfferUseCase) buildDeal(ctx context.Context, offer *entity.Offer, role string) (*PendingDeal, error) {
	product, err := uc.productRepo.GetByID(ctx, offer.ProductID)
	if err != nil {
		return nil, err
	}

	counterpartID := offer.BuyerID
	if role == entity.RoleBuyer {
		counterpartID = product.SellerID
	}
	counterpart := ""
	if u, err := uc.userRepo.GetByID(ctx, counterpartID); err == nil {
		counterpart = u.Nickname
	}

	return &PendingDeal{
		OfferID:         offer.ID,
		Role:            role,
		NegotiatedPrice: offer.Price,
		Message:         offer.Message,
		ProductID:       product.ID,
		ProductTitle:    product.Title,
		ListPrice:       product.Price,
		Counterpart:     counterpart,
		CreatedAt:       offer.CreatedAt,
	}, nil
}
