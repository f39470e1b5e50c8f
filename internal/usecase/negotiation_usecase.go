package usecase

import (
	"context"
	"time"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
	"pasarloak/pkg/logger"
)

const (
	// Direct negotiation requests get more rounds than bulk scans.
	maxRoundsDirect = 5
	maxRoundsBrowse = 3

	browseCandidateLimit = 20
	browsePickLimit      = 5
)

type NegotiationUseCase struct {
	agentClient AgentClient
	productRepo repository.ProductRepository
	offerRepo   repository.OfferRepository
	userRepo    repository.UserRepository
}

func NewNegotiationUseCase(
	agentClient AgentClient,
	productRepo repository.ProductRepository,
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
) *NegotiationUseCase {
	return &NegotiationUseCase{
		agentClient: agentClient,
		productRepo: productRepo,
		offerRepo:   offerRepo,
		userRepo:    userRepo,
	}
}

// Negotiate runs one agent-to-agent negotiation between the buyer and
// the product's seller. Precondition failures return an error without
// any agent call or ledger write; once the run starts, every outcome
// (including oracle failure) is reported through the result.
func (uc *NegotiationUseCase) Negotiate(ctx context.Context, buyer *entity.User, productID string) (*entity.NegotiationResult, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFound("Product", err)
	}
	if product.Status != entity.ProductStatusActive {
		return nil, errors.NotFound("Product", nil)
	}
	if product.SellerID == buyer.ID {
		return nil, errors.BadRequest("Cannot negotiate your own listing", nil)
	}

	seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
	if err != nil {
		return nil, err
	}
	if !seller.AgentOnline(time.Now()) {
		return nil, errors.BadRequest("Seller agent is offline", nil)
	}

	result := uc.run(ctx, buyer, seller, product, maxRoundsDirect)
	logger.LogNegotiation(product.ID, result.Outcome, result.Rounds)
	return result, nil
}

// AutoBrowse scans the market for the buyer: load active listings from
// other sellers, let the buyer's agent shortlist them, then negotiate
// each pick in turn. A failure in one product's run is reported as that
// product's result and does not abort the rest.
func (uc *NegotiationUseCase) AutoBrowse(ctx context.Context, buyer *entity.User) ([]entity.BrowseResult, error) {
	products, err := uc.productRepo.ListActiveExcludingSeller(ctx, buyer.ID, browseCandidateLimit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []entity.BrowseResult{}, nil
	}

	byID := make(map[string]*entity.Product, len(products))
	candidates := make([]entity.PickCandidate, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		candidates = append(candidates, entity.PickCandidate{
			ID:        p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Category:  p.Category,
			Condition: p.Condition,
		})
	}

	picks, err := uc.agentClient.PickInteresting(ctx, buyer.AccessToken, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]entity.BrowseResult, 0, len(picks))
	for i, pick := range picks {
		if i >= browsePickLimit {
			break
		}
		product, ok := byID[pick.ID]
		if !ok {
			continue
		}

		seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
		if err != nil {
			results = append(results, entity.BrowseResult{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				Outcome:      entity.OutcomeError,
				Reason:       err.Error(),
				Logs:         []entity.NegotiationLogEntry{},
			})
			continue
		}
		if !seller.AgentOnline(time.Now()) {
			results = append(results, entity.BrowseResult{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				Outcome:      entity.OutcomeSkipped,
				Reason:       "seller agent is offline",
				Logs:         []entity.NegotiationLogEntry{},
			})
			continue
		}

		run := uc.run(ctx, buyer, seller, product, maxRoundsBrowse)
		logger.LogNegotiation(product.ID, run.Outcome, run.Rounds)
		results = append(results, entity.BrowseResult{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			Outcome:      run.Outcome,
			FinalPrice:   run.FinalPrice,
			OfferID:      run.OfferID,
			Reason:       run.Reason,
			Logs:         run.Logs,
		})
	}

	return results, nil
}

// run drives the bounded round-robin between the buyer's and the
// seller's agents. Ledger writes already committed stay committed when
// a later step fails; nothing is rolled back.
func (uc *NegotiationUseCase) run(ctx context.Context, buyer, seller *entity.User, product *entity.Product, maxRounds int) *entity.NegotiationResult {
	logs := []entity.NegotiationLogEntry{}

	// Round 0: opening bid.
	firstBid, err := uc.agentClient.DecideBuyerOpen(ctx, buyer.AccessToken, product.Title, product.Price, product.MinPrice)
	if err != nil {
		return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Logs: logs}
	}
	if !firstBid.Interested() {
		reason := firstBid.Reason
		if reason == "" {
			reason = "not interested"
		}
		logs = append(logs, entity.NegotiationLogEntry{Role: entity.RoleBuyer, Action: "skip", Reason: reason})
		return &entity.NegotiationResult{Outcome: entity.OutcomeSkipped, Reason: reason, Logs: logs}
	}

	openPrice := *firstBid.SuggestedPrice
	logs = append(logs, entity.NegotiationLogEntry{Role: entity.RoleBuyer, Action: "offer", Price: &openPrice, Reason: firstBid.Reason})

	offer := &entity.Offer{
		ProductID: product.ID,
		BuyerID:   buyer.ID,
		Price:     openPrice,
		Message:   firstBid.Reason,
		Status:    entity.OfferStatusPending,
	}
	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Logs: logs}
	}

	for round := 1; round <= maxRounds; round++ {
		sellerRes, err := uc.agentClient.DecideSeller(ctx, seller.AccessToken, product.Title, product.Price, product.MinPrice, offer.Price)
		if err != nil {
			return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
		}
		logs = append(logs, entity.NegotiationLogEntry{Role: entity.RoleSeller, Action: sellerRes.Decision, Price: sellerRes.CounterPrice, Reason: sellerRes.Reason})

		if err := uc.offerRepo.UpdateDecision(ctx, offer.ID, sellerRes.Decision, sellerRes.CounterPrice); err != nil {
			return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
		}

		if sellerRes.Decision == entity.SellerDecisionAccept {
			if err := uc.offerRepo.UpdateStatus(ctx, offer.ID, entity.OfferStatusPendingConfirmation); err != nil {
				return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
			}
			finalPrice := offer.Price
			return &entity.NegotiationResult{
				Outcome:    entity.OutcomePendingConfirmation,
				FinalPrice: &finalPrice,
				OfferID:    offer.ID,
				Rounds:     round,
				Logs:       logs,
			}
		}
		if sellerRes.Decision == entity.SellerDecisionReject {
			if err := uc.offerRepo.UpdateStatus(ctx, offer.ID, entity.OfferStatusRejected); err != nil {
				return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
			}
			return &entity.NegotiationResult{Outcome: entity.OutcomeRejected, OfferID: offer.ID, Rounds: round, Logs: logs}
		}

		// Seller countered; fall back to the current price if the agent
		// declared counter without a number.
		counterPrice := offer.Price
		if sellerRes.CounterPrice != nil {
			counterPrice = *sellerRes.CounterPrice
		}

		buyerRes, err := uc.agentClient.DecideBuyerCounter(ctx, buyer.AccessToken, product.Title, product.Price, counterPrice)
		if err != nil {
			return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
		}
		logs = append(logs, entity.NegotiationLogEntry{Role: entity.RoleBuyer, Action: buyerRes.Decision, Price: buyerRes.CounterPrice, Reason: buyerRes.Reason})

		if buyerRes.Decision == entity.SellerDecisionAccept {
			accepted := &entity.Offer{
				ProductID:      product.ID,
				BuyerID:        buyer.ID,
				Price:          counterPrice,
				Message:        buyerRes.Reason,
				Status:         entity.OfferStatusPendingConfirmation,
				SellerDecision: entity.SellerDecisionAccept,
				InReplyToID:    offer.ID,
			}
			if err := uc.offerRepo.Create(ctx, accepted); err != nil {
				return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
			}
			finalPrice := counterPrice
			return &entity.NegotiationResult{
				Outcome:    entity.OutcomePendingConfirmation,
				FinalPrice: &finalPrice,
				OfferID:    accepted.ID,
				Rounds:     round,
				Logs:       logs,
			}
		}
		if buyerRes.Decision == entity.SellerDecisionReject {
			return &entity.NegotiationResult{Outcome: entity.OutcomeRejected, OfferID: offer.ID, Rounds: round, Logs: logs}
		}

		nextPrice := counterPrice
		if buyerRes.CounterPrice != nil {
			nextPrice = *buyerRes.CounterPrice
		}
		next := &entity.Offer{
			ProductID:   product.ID,
			BuyerID:     buyer.ID,
			Price:       nextPrice,
			Message:     buyerRes.Reason,
			Status:      entity.OfferStatusPending,
			InReplyToID: offer.ID,
		}
		if err := uc.offerRepo.Create(ctx, next); err != nil {
			return &entity.NegotiationResult{Outcome: entity.OutcomeError, Reason: err.Error(), Rounds: round, Logs: logs}
		}
		offer = next
	}

	return &entity.NegotiationResult{Outcome: entity.OutcomeNoDeal, OfferID: offer.ID, Rounds: maxRounds, Logs: logs}
}
