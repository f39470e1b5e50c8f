package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pasarloak/internal/domain/entity"
	"pasarloak/pkg/errors"
)

// In-memory stand-ins for the Firestore repositories, enforcing the same
// contracts (positive prices, forward-only status transitions).

type memoryUserRepo struct {
	users map[string]*entity.User
}

func newMemoryUserRepo(users ...*entity.User) *memoryUserRepo {
	repo := &memoryUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) GetBySecondMeUserID(ctx context.Context, secondmeUserID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.SecondMeUserID == secondmeUserID {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) GetByAccessToken(ctx context.Context, accessToken string) (*entity.User, error) {
	for _, u := range r.users {
		if u.AccessToken == accessToken {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type memoryProductRepo struct {
	products map[string]*entity.Product
}

func newMemoryProductRepo(products ...*entity.Product) *memoryProductRepo {
	repo := &memoryProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *memoryProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = fmt.Sprintf("product-%d", len(r.products)+1)
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, errors.NotFound("Product", nil)
}

func (r *memoryProductRepo) ListActive(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.ListActiveExcludingSeller(ctx, "", limit)
}

func (r *memoryProductRepo) ListActiveExcludingSeller(ctx context.Context, sellerID string, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.Status != entity.ProductStatusActive || p.SellerID == sellerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryProductRepo) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) MarkSold(ctx context.Context, id string) error {
	p, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	p.Status = entity.ProductStatusSold
	return nil
}

type memoryOfferRepo struct {
	offers []*entity.Offer
	nextID int
}

func newMemoryOfferRepo() *memoryOfferRepo {
	return &memoryOfferRepo{}
}

func (r *memoryOfferRepo) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.Price <= 0 {
		return errors.BadRequest("Offer price must be positive", nil)
	}
	r.nextID++
	if offer.ID == "" {
		offer.ID = fmt.Sprintf("offer-%d", r.nextID)
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	}
	if offer.Status == "" {
		offer.Status = entity.OfferStatusPending
	}
	clone := *offer
	r.offers = append(r.offers, &clone)
	return nil
}

func (r *memoryOfferRepo) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	for _, o := range r.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.NotFound("Offer", nil)
}

func (r *memoryOfferRepo) UpdateDecision(ctx context.Context, id string, decision string, counterPrice *float64) error {
	offer, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	offer.SellerDecision = decision
	if counterPrice != nil {
		offer.CounterPrice = counterPrice
	}
	return nil
}

func (r *memoryOfferRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	offer, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !entity.CanTransitionOffer(offer.Status, status) {
		return errors.InvalidTransition(fmt.Sprintf("Offer status cannot move from %s to %s", offer.Status, status))
	}
	offer.Status = status
	return nil
}

func (r *memoryOfferRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, o := range r.offers {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryOfferRepo) ListPendingConfirmationByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, o := range r.offers {
		if o.BuyerID == buyerID && o.Status == entity.OfferStatusPendingConfirmation {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOfferRepo) ListPendingConfirmationByProducts(ctx context.Context, productIDs []string) ([]*entity.Offer, error) {
	ids := map[string]bool{}
	for _, id := range productIDs {
		ids[id] = true
	}
	var out []*entity.Offer
	for _, o := range r.offers {
		if ids[o.ProductID] && o.Status == entity.OfferStatusPendingConfirmation {
			out = append(out, o)
		}
	}
	return out, nil
}

// scriptedAgent replays canned decisions and records every call so tests
// can assert which agents were consulted.
type scriptedAgent struct {
	openDecisions    []*entity.BuyerOpenDecision
	sellerDecisions  []*entity.AgentDecision
	buyerDecisions   []*entity.AgentDecision
	picks            []entity.ProductPick
	openErr          error
	sellerErr        error
	buyerErr         error
	pickErr          error
	openCalls        int
	sellerCalls      int
	buyerCalls       int
	pickCalls        int
	sellerSawMin     []*float64
	buyerCounterSeen []float64
}

func (a *scriptedAgent) DecideBuyerOpen(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64) (*entity.BuyerOpenDecision, error) {
	a.openCalls++
	if a.openErr != nil {
		return nil, a.openErr
	}
	d := a.openDecisions[0]
	if len(a.openDecisions) > 1 {
		a.openDecisions = a.openDecisions[1:]
	}
	return d, nil
}

func (a *scriptedAgent) DecideSeller(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64, offerPrice float64) (*entity.AgentDecision, error) {
	a.sellerCalls++
	a.sellerSawMin = append(a.sellerSawMin, minPrice)
	if a.sellerErr != nil {
		return nil, a.sellerErr
	}
	d := a.sellerDecisions[0]
	if len(a.sellerDecisions) > 1 {
		a.sellerDecisions = a.sellerDecisions[1:]
	}
	return d, nil
}

func (a *scriptedAgent) DecideBuyerCounter(ctx context.Context, accessToken string, productTitle string, listPrice float64, sellerCounterPrice float64) (*entity.AgentDecision, error) {
	a.buyerCalls++
	a.buyerCounterSeen = append(a.buyerCounterSeen, sellerCounterPrice)
	if a.buyerErr != nil {
		return nil, a.buyerErr
	}
	d := a.buyerDecisions[0]
	if len(a.buyerDecisions) > 1 {
		a.buyerDecisions = a.buyerDecisions[1:]
	}
	return d, nil
}

func (a *scriptedAgent) PickInteresting(ctx context.Context, accessToken string, candidates []entity.PickCandidate) ([]entity.ProductPick, error) {
	a.pickCalls++
	if a.pickErr != nil {
		return nil, a.pickErr
	}
	return a.picks, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
